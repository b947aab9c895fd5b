package http

import (
	"net/http"
)

func (s *Server) RegisterFunc(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := s.decode(r, &req, "Username and password are required"); err != nil {
		s.returnError(w, r, err)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password, req.IsAdmin)
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusCreated, userResponse{Message: "User registered successfully", User: user})
}

func (s *Server) LoginFunc(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := s.decode(r, &req, "Username and password are required"); err != nil {
		s.returnError(w, r, err)
		return
	}

	token, user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
