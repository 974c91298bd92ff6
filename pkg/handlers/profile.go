package handlers

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/metadata"
	"github.com/SentryView/sentryview/pkg/models"
	"github.com/SentryView/sentryview/pkg/notify"
	"github.com/SentryView/sentryview/pkg/render"
	"go.uber.org/zap"
)

// MaxAvatarSize is the upload cap for avatar images.
const MaxAvatarSize = 5 << 20 // 5 MB

var allowedAvatarExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
}

var profileFields = []string{"username", "email", "phone", "department"}

// ProfilePageHandler handles GET requests to /profile.
func (s *Server) ProfilePageHandler(w http.ResponseWriter, r *http.Request) {
	fields, avatarURL := s.Profile.View()

	data := struct {
		Title     string
		Fields    []render.ProfileField
		AvatarURL string
		Toast     render.ToastView
	}{
		Title:     "Profile",
		Fields:    fields,
		AvatarURL: avatarURL,
		Toast:     s.toastView(),
	}

	w.Header().Set(ContentTypeHeader, "text/html")
	if err := s.Renderer.Page(w, "profilePage", data); err != nil {
		log.Error("Failed to render profile page", zap.Error(err))
		http.Error(w, "", http.StatusInternalServerError)
	}
}

// ProfileUpdateHandler handles POST requests to /profile/update. The local
// cache is only touched with the field map the backend echoes on success.
func (s *Server) ProfileUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ProfileEnvelope{Success: false, Message: "invalid form data"})
		return
	}

	form := url.Values{}
	for _, name := range profileFields {
		if r.PostForm.Has(name) {
			form.Set(name, r.PostForm.Get(name))
		}
	}

	data, message, err := s.Backend.UpdateProfile(r.Context(), form)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.ProfileEnvelope{Success: false, Message: s.actionFailed(err, "update profile")})
		return
	}

	s.Profile.Merge(data)
	metadata.ActionsTotal.Inc()
	s.Notifier.Notify(message, notify.SeveritySuccess)

	if wantsHTML(r) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, models.ProfileEnvelope{Success: true, Message: message, Data: data})
}

// AvatarHandler handles POST requests to /profile/avatar.
func (s *Server) AvatarHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxAvatarSize); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ProfileEnvelope{Success: false, Message: "invalid multipart request"})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ProfileEnvelope{Success: false, Message: "no avatar file provided"})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Error("Failed to close avatar upload", zap.Error(err))
		}
	}()

	if header.Size > MaxAvatarSize {
		s.Notifier.Notify("Avatar must be 5 MB or smaller", notify.SeverityError)
		writeJSON(w, http.StatusBadRequest, models.ProfileEnvelope{Success: false, Message: "avatar too large"})
		return
	}
	if !allowedAvatarExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		s.Notifier.Notify("Avatar must be a JPG, PNG or GIF image", notify.SeverityError)
		writeJSON(w, http.StatusBadRequest, models.ProfileEnvelope{Success: false, Message: "unsupported image type"})
		return
	}

	avatarURL, message, err := s.Backend.UploadAvatar(r.Context(), header.Filename, file)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.ProfileEnvelope{Success: false, Message: s.actionFailed(err, "upload avatar")})
		return
	}

	s.Profile.SetAvatarURL(avatarURL)
	metadata.ActionsTotal.Inc()
	s.Notifier.Notify(message, notify.SeveritySuccess)

	if wantsHTML(r) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, models.ProfileEnvelope{Success: true, Message: message, AvatarURL: avatarURL})
}

// PasswordHandler handles POST requests to /profile/change-password. The
// confirmation mismatch is caught locally; everything else is the backend's
// call.
func (s *Server) PasswordHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ProfileEnvelope{Success: false, Message: "invalid form data"})
		return
	}

	current := r.PostForm.Get("current_password")
	next := r.PostForm.Get("new_password")
	confirm := r.PostForm.Get("confirm_password")

	if next == "" || next != confirm {
		s.Notifier.Notify("New password and confirmation do not match", notify.SeverityError)
		writeJSON(w, http.StatusBadRequest, models.ProfileEnvelope{Success: false, Message: "password confirmation mismatch"})
		return
	}

	message, err := s.Backend.ChangePassword(r.Context(), current, next, confirm)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.ProfileEnvelope{Success: false, Message: s.actionFailed(err, "change password")})
		return
	}

	metadata.ActionsTotal.Inc()
	s.Notifier.Notify(message, notify.SeveritySuccess)

	if wantsHTML(r) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, models.ProfileEnvelope{Success: true, Message: message})
}
