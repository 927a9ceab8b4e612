// Package server exposes the CivicLens HTTP API.
//
// Route groups:
//   - /api/sessions: wizard session lifecycle and step transitions
//   - /api/complaints: the persisted record list, status updates and
//     document exports
//   - /api/auth: sign-in flows and session management
//   - /api/chat: the floating assistant widget
//   - /api/catalog: state and city suggestions for the details step
package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"civiclens/internal/auth"
	"civiclens/internal/complaint"
	"civiclens/internal/config"
	cerrors "civiclens/internal/errors"
	"civiclens/internal/geocode"
	"civiclens/internal/health"
	"civiclens/internal/letter"
	"civiclens/internal/storage"
	"civiclens/internal/telegram"
	"civiclens/internal/wizard"
)

// Server wires the HTTP layer to the application components.
type Server struct {
	cfg      *config.Config
	sessions *wizard.Manager
	store    *storage.Store
	pipeline *letter.Pipeline
	provider auth.Provider
	users    *auth.SessionStore
	notifier *telegram.Client
	monitor  *health.Monitor
	geocoder geocode.Geocoder
}

// New assembles the API server. notifier, monitor and geocoder may be
// nil; a nil geocoder disables the map passthrough endpoints.
func New(cfg *config.Config, sessions *wizard.Manager, store *storage.Store,
	pipeline *letter.Pipeline, provider auth.Provider, users *auth.SessionStore,
	notifier *telegram.Client, monitor *health.Monitor,
	geocoder geocode.Geocoder) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		store:    store,
		pipeline: pipeline,
		provider: provider,
		users:    users,
		notifier: notifier,
		monitor:  monitor,
		geocoder: geocoder,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := r.Group("/api")

	// Wizard sessions
	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.DELETE("/sessions/:id", s.closeSession)
	api.POST("/sessions/:id/category", s.selectCategory)
	api.PATCH("/sessions/:id/details", s.updateDetails)
	api.POST("/sessions/:id/description", s.autoFillDescription)
	api.POST("/sessions/:id/locate", s.locate)
	api.POST("/sessions/:id/image", s.setImage)
	api.POST("/sessions/:id/signature", s.setSignature)
	api.POST("/sessions/:id/next", s.nextStep)
	api.POST("/sessions/:id/back", s.backStep)
	api.POST("/sessions/:id/generate", s.generate)
	api.PUT("/sessions/:id/letter", s.updateLetter)

	// Complaint records
	api.GET("/complaints", s.listComplaints)
	api.GET("/complaints/:id", s.getComplaint)
	api.PUT("/complaints/:id/status", s.updateStatus)
	api.GET("/complaints/:id/export/pdf", s.exportPDF)
	api.GET("/complaints/:id/export/docx", s.exportDOCX)

	// Identity
	api.POST("/auth/google", s.googleSignIn)
	api.POST("/auth/email", s.emailLogin)
	api.POST("/auth/signup", s.signUp)
	api.POST("/auth/otp/send", s.sendOTP)
	api.POST("/auth/otp/verify", s.verifyOTP)
	api.GET("/auth/me", s.currentUser)
	api.POST("/auth/logout", s.logout)

	// Assistant widget
	api.POST("/chat", s.chat)

	// Catalog
	api.GET("/catalog/categories", s.listCategories)
	api.GET("/catalog/states", s.listStates)
	api.GET("/catalog/cities", s.listCities)

	// Map passthrough
	if s.geocoder != nil {
		api.GET("/geocode/forward", s.geocodeForward)
		api.GET("/geocode/reverse", s.geocodeReverse)
	}

	return r
}

// Start runs the API server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.HTTPPort,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 API server started on :%s", s.cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("🛑 Shutting down API server...")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// fail maps application errors to HTTP responses.
func fail(c *gin.Context, err error) {
	switch {
	case cerrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case cerrors.IsServiceCall(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// sessionView is the wizard state returned to the client.
type sessionView struct {
	ID     string          `json:"id"`
	Step   int             `json:"step"`
	Name   string          `json:"stepName"`
	Draft  draftView       `json:"draft"`
	Letter string          `json:"letter,omitempty"`
	Record string          `json:"recordId,omitempty"`
	Coords *coordinateView `json:"coordinates,omitempty"`
}

type draftView struct {
	Type        complaint.Type            `json:"type,omitempty"`
	Location    complaint.LocationDetails `json:"locationDetails"`
	AreaType    complaint.AreaType        `json:"areaType,omitempty"`
	Description string                    `json:"description"`
	HasImage    bool                      `json:"hasImage"`
	Language    complaint.Language        `json:"language,omitempty"`
	Template    complaint.Template        `json:"template,omitempty"`
	Authority   string                    `json:"authority"`
	HasSig      bool                      `json:"hasSignature"`
}

type coordinateView struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func viewOf(sess *wizard.Session) sessionView {
	d := sess.Draft()
	v := sessionView{
		ID:   sess.ID,
		Step: int(sess.Step()),
		Name: sess.Step().String(),
		Draft: draftView{
			Type:        d.Type,
			Location:    d.Location,
			AreaType:    d.AreaType,
			Description: d.Description,
			HasImage:    d.Image != "",
			Language:    d.Language,
			Template:    d.Template,
			Authority:   d.Authority,
			HasSig:      d.Signature != "",
		},
	}
	if letter, ok := sess.Letter(); ok {
		v.Letter = letter
	}
	if id, ok := sess.RecordID(); ok {
		v.Record = id
	}
	if coords, ok := sess.Coordinates(); ok {
		v.Coords = &coordinateView{Lat: coords.Lat, Lon: coords.Lon}
	}
	return v
}

// session resolves the :id path parameter, writing a 404 on miss.
func (s *Server) session(c *gin.Context) (*wizard.Session, bool) {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return sess, true
}
