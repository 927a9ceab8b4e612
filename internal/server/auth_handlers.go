package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"civiclens/internal/auth"
)

// signIn persists the session and responds with the profile.
func (s *Server) signIn(c *gin.Context, u auth.User) {
	if err := s.users.Save(u); err != nil {
		log.Printf("⚠️  Failed to persist session: %v", err)
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) googleSignIn(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := s.provider.GoogleSignIn(c.Request.Context(), req.Token)
	if err != nil {
		fail(c, err)
		return
	}
	s.signIn(c, u)
}

func (s *Server) emailLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := s.provider.EmailLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	s.signIn(c, u)
}

func (s *Server) signUp(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := s.provider.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	s.signIn(c, u)
}

func (s *Server) sendOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	code, err := s.provider.SendOTP(c.Request.Context(), req.Phone)
	if err != nil {
		fail(c, err)
		return
	}
	// Demo flow: the code is returned so the UI can surface it
	c.JSON(http.StatusOK, gin.H{"code": code})
}

func (s *Server) verifyOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := s.provider.VerifyOTP(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		fail(c, err)
		return
	}
	s.signIn(c, u)
}

func (s *Server) currentUser(c *gin.Context) {
	u, ok := s.users.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) logout(c *gin.Context) {
	if err := s.users.Clear(); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
