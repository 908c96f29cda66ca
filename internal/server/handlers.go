package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/renato0307/ktopo/internal/hull"
	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/kubevirt/network"
	"github.com/renato0307/ktopo/internal/topology"
)

func (s *Server) getTopology(c *gin.Context) {
	result := s.opts.Pipeline.Run()
	c.JSON(http.StatusOK, result.Data)
}

func (s *Server) getModel(c *gin.Context) {
	result := s.opts.Pipeline.Run()
	c.JSON(http.StatusOK, topology.ModelFromData(result.Data))
}

func (s *Server) getNode(c *gin.Context) {
	uid := c.Param("uid")
	node, ok := s.opts.Pipeline.Last().Data.Topology[uid]
	if !ok {
		abortWithError(c, http.StatusNotFound, fmt.Errorf("node %s not found", uid))
		return
	}

	if c.Query("format") == "yaml" {
		out, err := k8s.FormatYAML(topology.ResourceObject(node))
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "application/yaml", []byte(out))
		return
	}
	c.JSON(http.StatusOK, node)
}

func (s *Server) getFilters(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Pipeline.Filters())
}

func (s *Server) putFilters(c *gin.Context) {
	filters := s.opts.Pipeline.Filters()
	if err := c.ShouldBindJSON(&filters); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	s.opts.Pipeline.SetFilters(filters)
	c.JSON(http.StatusOK, filters)
}

type hullRequest struct {
	// Group keys the cached path; empty disables caching
	Group    string        `json:"group"`
	Children []hull.Bounds `json:"children"`
	Padding  float64       `json:"padding"`
	Frozen   bool          `json:"frozen"`
}

type hullResponse struct {
	Path string `json:"path"`
	OK   bool   `json:"ok"`
}

func (s *Server) postHull(c *gin.Context) {
	var req hullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	var resp hullResponse
	if req.Group == "" {
		resp.Path, resp.OK = hull.ComputePath(req.Children, req.Padding)
	} else {
		cache := s.hullCache(req.Group)
		s.hullMu.Lock()
		resp.Path, resp.OK = cache.Path(req.Children, req.Padding, req.Frozen)
		s.hullMu.Unlock()
	}
	c.JSON(http.StatusOK, resp)
}

type connectionRequest struct {
	Source         string `json:"source" binding:"required"`
	Target         string `json:"target" binding:"required"`
	ReplaceTarget  string `json:"replaceTarget"`
	ServiceBinding bool   `json:"serviceBinding"`
}

func (s *Server) postConnection(c *gin.Context) {
	if s.opts.Client == nil {
		abortWithError(c, http.StatusNotImplemented, errors.New("connections need a cluster connection"))
		return
	}

	var req connectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	data := s.opts.Pipeline.Last().Data
	lookup := func(uid string) (*topology.Node, error) {
		if uid == "" {
			return nil, nil
		}
		node, ok := data.Topology[uid]
		if !ok {
			return nil, fmt.Errorf("node %s not found", uid)
		}
		return node, nil
	}

	var nodes [3]*topology.Node
	for i, uid := range []string{req.Source, req.Target, req.ReplaceTarget} {
		node, err := lookup(uid)
		if err != nil {
			abortWithError(c, http.StatusNotFound, err)
			return
		}
		nodes[i] = node
	}

	mode := "annotation"
	if req.ServiceBinding {
		mode = "service-binding"
	}
	obj, err := topology.CreateConnection(c.Request.Context(), s.opts.Client, nodes[0], nodes[1], nodes[2], req.ServiceBinding)
	s.opts.Metrics.ObserveConnection(mode, err)
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, connectionStatus(err), err)
		return
	}

	// the next read sees the new edge
	s.opts.Pipeline.Run()
	c.JSON(http.StatusCreated, obj)
}

// connectionStatus maps a connection failure onto an HTTP status
func connectionStatus(err error) int {
	if errors.Is(err, topology.ErrInvalidConnection) {
		return http.StatusBadRequest
	}
	var status apierrors.APIStatus
	if errors.As(err, &status) {
		if code := int(status.Status().Code); code >= 400 {
			return code
		}
	}
	return http.StatusBadGateway
}

type networkTypeResponse struct {
	Value                 string   `json:"value"`
	DefaultInterfaceType  string   `json:"defaultInterfaceType"`
	AllowedInterfaceTypes []string `json:"allowedInterfaceTypes"`
}

func newNetworkTypeResponse(t network.Type) networkTypeResponse {
	def, _ := t.DefaultInterfaceType()
	allowed := t.AllowedInterfaceTypes()
	resp := networkTypeResponse{
		Value:                 t.String(),
		DefaultInterfaceType:  string(def),
		AllowedInterfaceTypes: make([]string, 0, len(allowed)),
	}
	for _, it := range allowed {
		resp.AllowedInterfaceTypes = append(resp.AllowedInterfaceTypes, string(it))
	}
	return resp
}

func (s *Server) listNetworkTypes(c *gin.Context) {
	all := network.All()
	out := make([]networkTypeResponse, 0, len(all))
	for _, t := range all {
		out = append(out, newNetworkTypeResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getNetworkType(c *gin.Context) {
	t, ok := network.FromString(c.Param("value"))
	if !ok {
		abortWithError(c, http.StatusNotFound, fmt.Errorf("unknown network type %q", c.Param("value")))
		return
	}
	c.JSON(http.StatusOK, newNetworkTypeResponse(t))
}

func (s *Server) listResources(c *gin.Context) {
	lister, ok := s.opts.Listers[c.Param("name")]
	if !ok {
		abortWithError(c, http.StatusNotFound, fmt.Errorf("no lister for %q", c.Param("name")))
		return
	}
	lister.Handle(c)
}
