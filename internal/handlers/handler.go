package handlers

import "net/http"

type Handler interface {
	// HTML form
	FormPage(w http.ResponseWriter, r *http.Request)
	FormConnect(w http.ResponseWriter, r *http.Request)
	FormDefault(w http.ResponseWriter, r *http.Request)
	FormPreset(w http.ResponseWriter, r *http.Request)
	// JSON API
	GetConnection(w http.ResponseWriter, r *http.Request)
	PutInput(w http.ResponseWriter, r *http.Request)
	PostSubmit(w http.ResponseWriter, r *http.Request)
	PostDefault(w http.ResponseWriter, r *http.Request)
	PostPreset(w http.ResponseWriter, r *http.Request)
	GetPresets(w http.ResponseWriter, r *http.Request)
	GetGuide(w http.ResponseWriter, r *http.Request)
	GetTip(w http.ResponseWriter, r *http.Request)
	MonitorSSE(w http.ResponseWriter, r *http.Request)
}
