package controllers

import (
	"net/http"
	"portal/internal/models"
	"portal/internal/services"
)

type MessageController struct {
	*ApiController
	service services.MessageServiceInterface
}

func NewMessageController(api *ApiController, service services.MessageServiceInterface) *MessageController {
	return &MessageController{
		ApiController: api,
		service:       service,
	}
}

type seenRequest struct {
	Altered []int64           `json:"altered"`
	Action  models.SeenAction `json:"action"`
}

func (mc *MessageController) GetMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := mc.user(w, r)
	if !ok {
		return
	}
	mc.writeJSON(w, http.StatusOK, mc.service.GetVisibleMessages(r.Context(), user))
}

func (mc *MessageController) GetSeen(w http.ResponseWriter, r *http.Request) {
	user, ok := mc.user(w, r)
	if !ok {
		return
	}
	mc.writeJSON(w, http.StatusOK, mc.service.GetSeenIDs(r.Context(), user.Name))
}

// SetSeen applies a dismiss or restore edit against the stored seen list
// and answers with the resulting list.
func (mc *MessageController) SetSeen(w http.ResponseWriter, r *http.Request) {
	user, ok := mc.user(w, r)
	if !ok {
		return
	}
	var req seenRequest
	if err := mc.decodeBody(w, r, &req); err != nil {
		mc.writeError(w, r, err)
		return
	}
	if req.Altered == nil {
		req.Altered = []int64{}
	}
	original := mc.service.GetSeenIDs(r.Context(), user.Name)
	mc.writeJSON(w, http.StatusOK, mc.service.SetMessagesSeen(r.Context(), user.Name, original, req.Altered, req.Action))
}
