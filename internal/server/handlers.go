package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"civiclens/internal/complaint"
	"civiclens/internal/export"
	"civiclens/internal/signature"
	"civiclens/internal/wizard"
)

// wizardPatch converts the request body to the wizard's patch type.
func wizardPatch(req detailsRequest) wizard.DetailsPatch {
	return wizard.DetailsPatch{
		Area:        req.Area,
		City:        req.City,
		State:       req.State,
		Ward:        req.Ward,
		Description: req.Description,
		Language:    req.Language,
		Template:    req.Template,
		AreaType:    req.AreaType,
		Authority:   req.Authority,
	}
}

// Wizard session handlers

func (s *Server) createSession(c *gin.Context) {
	sess := s.sessions.Create()
	c.JSON(http.StatusCreated, viewOf(sess))
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

func (s *Server) closeSession(c *gin.Context) {
	s.sessions.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) selectCategory(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req struct {
		Category complaint.Type `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sess.SelectCategory(req.Category); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

// detailsRequest mirrors wizard.DetailsPatch; absent fields stay
// untouched.
type detailsRequest struct {
	Area        *string             `json:"area"`
	City        *string             `json:"city"`
	State       *string             `json:"state"`
	Ward        *string             `json:"ward"`
	Description *string             `json:"description"`
	Language    *complaint.Language `json:"language"`
	Template    *complaint.Template `json:"template"`
	AreaType    *complaint.AreaType `json:"areaType"`
	Authority   *string             `json:"authority"`
}

func (s *Server) updateDetails(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := wizardPatch(req)
	if err := sess.UpdateDetails(patch); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

func (s *Server) autoFillDescription(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	text := sess.AutoFillDescription(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"description": text})
}

func (s *Server) locate(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sess.Locate(c.Request.Context(), req.Lat, req.Lon); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

func (s *Server) setImage(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sess.SetImage(req.Image); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

// setSignature accepts either a typed name (rendered server-side) or
// a drawn signature data URL.
func (s *Server) setSignature(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dataURL := req.Image
	if req.Name != "" {
		rendered, err := signature.RenderTyped(req.Name)
		if err != nil {
			fail(c, err)
			return
		}
		dataURL = rendered
	} else if err := signature.ValidateDrawn(dataURL); err != nil {
		fail(c, err)
		return
	}

	if err := sess.SetSignature(dataURL); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

func (s *Server) nextStep(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.Next(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

func (s *Server) backStep(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.Back()
	c.JSON(http.StatusOK, viewOf(sess))
}

func (s *Server) generate(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	text, rec, err := sess.Generate(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	if s.monitor != nil {
		if sess.UsedFallback() {
			s.monitor.RecordGeneration("fallback")
		} else {
			s.monitor.RecordGeneration("success")
		}
	}

	c.JSON(http.StatusOK, gin.H{"letter": text, "record": rec})
}

func (s *Server) updateLetter(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess.UpdateLetter(req.Text)
	c.JSON(http.StatusOK, viewOf(sess))
}

// Complaint record handlers

func (s *Server) listComplaints(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.List())
}

func (s *Server) getComplaint(c *gin.Context) {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) updateStatus(c *gin.Context) {
	var req struct {
		Status complaint.Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	id := c.Param("id")
	rec, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}

	if err := s.store.UpdateStatus(id, req.Status); err != nil {
		fail(c, err)
		return
	}
	s.notifier.NotifyStatusChange(rec, req.Status)

	updated, _ := s.store.Get(id)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) exportPDF(c *gin.Context) {
	s.export(c, "pdf", "application/pdf", export.PDF)
}

func (s *Server) exportDOCX(c *gin.Context) {
	s.export(c, "docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		export.DOCX)
}

// export renders a record to a document and marks it Downloaded. The
// signature captured by the wizard rides on the record itself.
func (s *Server) export(c *gin.Context, ext, contentType string,
	render func(complaint.Record, string) ([]byte, error)) {
	id := c.Param("id")
	rec, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}

	data, err := render(rec, rec.Signature)
	if err != nil {
		fail(c, err)
		return
	}

	if rec.Status == complaint.StatusDraft {
		if err := s.store.UpdateStatus(id, complaint.StatusDownloaded); err != nil {
			fail(c, err)
			return
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(rec, ext)+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Map passthrough handlers

func (s *Server) geocodeForward(c *gin.Context) {
	coords, ok, err := s.geocoder.Forward(c.Request.Context(),
		c.Query("area"), c.Query("city"), c.Query("state"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no match for the address"})
		return
	}
	c.JSON(http.StatusOK, coords)
}

func (s *Server) geocodeReverse(c *gin.Context) {
	var req struct {
		Lat float64 `form:"lat"`
		Lon float64 `form:"lon"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}

	addr, err := s.geocoder.Reverse(c.Request.Context(), req.Lat, req.Lon)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

// chat answers one assistant message. A signed-in citizen's name is
// attached so the reply can address them; the canned fallback keeps
// the widget working when no generative service is configured.
func (s *Server) chat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	var name string
	if user, ok := s.users.Current(); ok {
		name = user.Name
	}

	reply, fromFallback := s.pipeline.Chat(c.Request.Context(), req.Message, name)
	c.JSON(http.StatusOK, gin.H{"reply": reply, "fallback": fromFallback})
}

// Catalog handlers

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, complaint.AllTypes)
}

func (s *Server) listStates(c *gin.Context) {
	c.JSON(http.StatusOK, complaint.States())
}

func (s *Server) listCities(c *gin.Context) {
	state := c.Query("state")
	if state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state is required"})
		return
	}
	c.JSON(http.StatusOK, complaint.CitySuggestions(state, c.Query("q")))
}
