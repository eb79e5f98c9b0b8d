package pdfjob_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedocs/pdfgen/internal/auth"
	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/httpclient"
	"github.com/tradedocs/pdfgen/internal/pdfjob"
)

func newTestClient(t *testing.T, baseURL string) *pdfjob.Client {
	t.Helper()
	provider := auth.NewCachedProvider(func(ctx context.Context) (string, error) {
		return "test-token", nil
	})
	client := pdfjob.New(baseURL, httpclient.New(provider))
	client.PollInterval = 5 * time.Millisecond
	return client
}

func validRequest() docmodel.GenerationRequest {
	return docmodel.GenerationRequest{
		DocType:  docmodel.DocTypeInvoice,
		FormData: docmodel.FormData{"Invoice No": "INV-1"},
		Language: docmodel.LanguageEnglish,
	}
}

func TestStartSubmitsGenerationRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pdf/start", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "invoice", body["docType"])
		assert.Equal(t, "en", body["language"])

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"jobId":"job-1"}`))
	}))
	defer server.Close()

	jobID, err := newTestClient(t, server.URL).Start(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
}

func TestStartRejectsInvalidRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid requests must not reach the server")
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Start(context.Background(), docmodel.GenerationRequest{
		DocType:  docmodel.DocTypeInvoice,
		Language: "de", // unsupported
	})
	assert.Error(t, err)
}

func TestStartWithoutTokenIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent without a token")
	}))
	defer server.Close()

	provider := auth.NewCachedProvider(func(ctx context.Context) (string, error) {
		return "", auth.ErrNoToken
	})
	client := pdfjob.New(server.URL, httpclient.New(provider))

	_, err := client.Start(context.Background(), validRequest())
	var authErr *httpclient.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestStartConcatenatesServerDiagnostics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad form","message":"missing recipient","details":"field RECIPIENT"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Start(context.Background(), validRequest())
	var subErr *pdfjob.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, http.StatusBadRequest, subErr.Status)
	assert.Equal(t, "bad form - missing recipient - field RECIPIENT", subErr.Diag)
}

func TestWaitForCompletionResolvesImmediately(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		_, _ = w.Write([]byte(`{"status":"completed"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.PollInterval = time.Hour // any sleep would hang the test

	var seen []docmodel.JobStatus
	job, err := client.WaitForCompletion(context.Background(), "job-1", func(j docmodel.Job) {
		seen = append(seen, j.Status)
	}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, docmodel.JobStatusCompleted, job.Status)
	assert.Equal(t, int32(1), polls.Load())
	assert.Equal(t, []docmodel.JobStatus{docmodel.JobStatusCompleted}, seen)
}

func TestWaitForCompletionTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"processing"}`))
	}))
	defer server.Close()

	timeout := 30 * time.Millisecond
	start := time.Now()
	_, err := newTestClient(t, server.URL).WaitForCompletion(context.Background(), "job-1", nil, timeout)

	var timeoutErr *pdfjob.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "job-1", timeoutErr.JobID)
	assert.GreaterOrEqual(t, timeoutErr.Elapsed, timeout)
	assert.GreaterOrEqual(t, time.Since(start), timeout)
}

func TestWaitForCompletionSurfacesServerFailure(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "error field", body: `{"status":"failed","error":"template broke"}`, want: "template broke"},
		{name: "message field", body: `{"status":"failed","message":"renderer crashed"}`, want: "renderer crashed"},
		{name: "details field", body: `{"status":"failed","details":"page overflow"}`, want: "page overflow"},
		{
			name: "all fields concatenated",
			body: `{"status":"failed","error":"E","message":"M","details":"D","stack":"at render()"}`,
			want: "E - M - D",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).WaitForCompletion(context.Background(), "job-1", nil, time.Minute)
			var failed *pdfjob.JobFailedError
			require.ErrorAs(t, err, &failed)
			assert.Contains(t, failed.Reason, tc.want)
			// server-sourced stack traces are logged, never surfaced
			assert.NotContains(t, failed.Reason, "at render()")
		})
	}
}

func TestWaitForCompletionKeepsPollingThroughUnknownStatus(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch polls.Add(1) {
		case 1:
			_, _ = w.Write([]byte(`{"status":"queued-for-render"}`))
		default:
			_, _ = w.Write([]byte(`{"status":"completed"}`))
		}
	}))
	defer server.Close()

	job, err := newTestClient(t, server.URL).WaitForCompletion(context.Background(), "job-1", nil, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, docmodel.JobStatusCompleted, job.Status)
	assert.Equal(t, int32(2), polls.Load())
}

func TestWaitForCompletionStopsOnContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"processing"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := newTestClient(t, server.URL)
	client.PollInterval = time.Hour

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := client.WaitForCompletion(ctx, "job-1", nil, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownloadWritesArtifact(t *testing.T) {
	artifact := []byte("%PDF-1.4 fake artifact")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pdf/download/job-1", r.URL.Path)
		_, _ = w.Write(artifact)
	}))
	defer server.Close()

	var buf bytes.Buffer
	err := newTestClient(t, server.URL).Download(context.Background(), "job-1", &buf)
	require.NoError(t, err)
	assert.Equal(t, artifact, buf.Bytes())
}

func TestDownloadRejectsEmptyArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK) // 200 with an empty body
	}))
	defer server.Close()

	var buf bytes.Buffer
	err := newTestClient(t, server.URL).Download(context.Background(), "job-1", &buf)

	var emptyErr *pdfjob.EmptyArtifactError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "job-1", emptyErr.JobID)
	assert.Zero(t, buf.Len())
}

func TestDownloadReportsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Job not found"}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	err := newTestClient(t, server.URL).Download(context.Background(), "ghost", &buf)

	var dlErr *pdfjob.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, http.StatusNotFound, dlErr.Status)
	assert.Contains(t, dlErr.Diag, "Job not found")
}

func TestHealthSucceedsWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := auth.NewCachedProvider(func(ctx context.Context) (string, error) {
		return "", auth.ErrNoToken
	})
	client := pdfjob.New(server.URL, httpclient.New(provider))
	assert.NoError(t, client.Health(context.Background()))
}
