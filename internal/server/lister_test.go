package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"

	"github.com/renato0307/ktopo/internal/k8s"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResourceLister(t *testing.T) {
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"kind":"List","items":[]}`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer upstream.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	listers := map[string]*ResourceLister{
		"ok":        {BearerToken: "secret", RequestURL: mustURL(t, upstream.URL+"/ok"), Client: upstream.Client()},
		"forbidden": {BearerToken: "secret", RequestURL: mustURL(t, upstream.URL+"/forbidden"), Client: upstream.Client()},
		"down":      {RequestURL: mustURL(t, closedURL), Client: http.DefaultClient},
	}
	s := newTestServer(t, nil, listers)

	t.Run("proxies the list", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/list/ok", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"kind":"List","items":[]}`, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Bearer secret", gotAuth)
	})

	t.Run("only GET", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/list/ok", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.JSONEq(t, `{"error":"invalid method: only GET is allowed"}`, rec.Body.String())
	})

	t.Run("upstream refuses", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/list/forbidden", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"console service account cannot list resource: 403 Forbidden"}`, rec.Body.String())
	})

	t.Run("upstream down", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/list/down", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("unknown lister", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/list/widgets", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListPath(t *testing.T) {
	deployments, _ := k8s.GetKindConfig(k8s.KindDeployment)
	pods, _ := k8s.GetKindConfig(k8s.KindPod)

	assert.Equal(t, "/apis/apps/v1/namespaces/testproject1/deployments", listPath("", deployments, "testproject1"))
	assert.Equal(t, "/api/v1/pods", listPath("", pods, ""))
	assert.Equal(t, "/k8s/api/v1/namespaces/ns/pods", listPath("/k8s", pods, "ns"))
}

func TestNewListers(t *testing.T) {
	cfg := &rest.Config{Host: "https://api.example.com:6443", BearerToken: "from-config"}

	listers, err := NewListers(cfg, "testproject1", "", []k8s.Kind{k8s.KindServiceBindingRequest, "widgets"})
	require.NoError(t, err)
	require.Len(t, listers, 1)

	sbr := listers[string(k8s.KindServiceBindingRequest)]
	require.NotNil(t, sbr)
	assert.Equal(t, "https://api.example.com:6443/apis/apps.openshift.io/v1alpha1/namespaces/testproject1/servicebindingrequests", sbr.RequestURL.String())
	assert.Equal(t, "from-config", sbr.BearerToken)

	listers, err = NewListers(cfg, "", "override", []k8s.Kind{k8s.KindPod})
	require.NoError(t, err)
	assert.Equal(t, "override", listers[string(k8s.KindPod)].BearerToken)
}
