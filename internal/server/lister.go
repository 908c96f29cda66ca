package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/gin-gonic/gin"
	"k8s.io/client-go/rest"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/logging"
)

// ResourceLister proxies a list request to the API server with a fixed
// bearer token
type ResourceLister struct {
	BearerToken string
	RequestURL  *url.URL
	Client      *http.Client
}

// Handle forwards GET requests and streams the upstream body back
func (l *ResourceLister) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		abortWithError(c, http.StatusMethodNotAllowed, fmt.Errorf("invalid method: only GET is allowed"))
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, l.RequestURL.String(), nil)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, fmt.Errorf("failed to create GET request: %w", err))
		return
	}
	if l.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+l.BearerToken)
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		abortWithError(c, http.StatusBadGateway, fmt.Errorf("GET request failed: %w", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		abortWithError(c, http.StatusInternalServerError, fmt.Errorf("console service account cannot list resource: %s", resp.Status))
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		c.Header("Content-Type", ct)
	}
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		logging.Warn("failed to copy list response", "url", l.RequestURL.String(), "error", err)
	}
}

// NewListers builds one lister per kind against the API server of cfg. token
// overrides the bearer token of cfg when set.
func NewListers(cfg *rest.Config, namespace, token string, kinds []k8s.Kind) (map[string]*ResourceLister, error) {
	httpClient, err := rest.HTTPClientFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid API server host %q: %w", cfg.Host, err)
	}
	if token == "" {
		token = cfg.BearerToken
	}

	listers := make(map[string]*ResourceLister, len(kinds))
	for _, kind := range kinds {
		kindCfg, ok := k8s.GetKindConfig(kind)
		if !ok {
			continue
		}
		u := *base
		u.Path = listPath(u.Path, kindCfg, namespace)
		listers[string(kind)] = &ResourceLister{
			BearerToken: token,
			RequestURL:  &u,
			Client:      httpClient,
		}
	}
	return listers, nil
}

// listPath is the REST path listing a kind, e.g. /apis/apps/v1/namespaces/ns/deployments
func listPath(prefix string, cfg k8s.KindConfig, namespace string) string {
	parts := []string{"/", prefix}
	if cfg.GVR.Group == "" {
		parts = append(parts, "api", cfg.GVR.Version)
	} else {
		parts = append(parts, "apis", cfg.GVR.Group, cfg.GVR.Version)
	}
	if cfg.Namespaced && namespace != "" {
		parts = append(parts, "namespaces", namespace)
	}
	parts = append(parts, cfg.GVR.Resource)
	return path.Join(parts...)
}
