package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingBody(businessID uint, value float64, msg string) map[string]interface{} {
	return map[string]interface{}{"business_id": businessID, "rating": value, "message": msg}
}

func TestRatingController_CreateAndList(t *testing.T) {
	env := setupControllerTest(t)
	owner := env.register(t, "Owner", "owner@example.com", model.StatusApproved)
	rater := env.register(t, "Rater", "rater@example.com", model.StatusApproved)
	businessID := createBusiness(t, env, owner, map[string]interface{}{"company_name": "Acme"})
	token := memberToken(t, rater)

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
	}{
		{"zero is allowed", ratingBody(businessID, 0, "meh"), http.StatusCreated},
		{"fractional", ratingBody(businessID, 4.5, "great"), http.StatusCreated},
		{"above five", ratingBody(businessID, 5.5, ""), http.StatusBadRequest},
		{"negative", ratingBody(businessID, -1, ""), http.StatusBadRequest},
		{"missing rating", map[string]interface{}{"business_id": businessID}, http.StatusBadRequest},
		{"unknown business", ratingBody(9999, 3, ""), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.doJSON(http.MethodPost, "/api/ratings", token, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}

	w := env.doJSON(http.MethodGet, fmt.Sprintf("/api/ratings/%d", businessID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["ratings"], 2)
	assert.InDelta(t, 2.25, data["average"], 0.0001)
	assert.Equal(t, float64(2), data["count"])

	created := data["ratings"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, float64(rater.ID), created["member_id"])

	w = env.doJSON(http.MethodGet, "/api/ratings/9999", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	empty := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), empty["average"])
	assert.Equal(t, float64(0), empty["count"])
}

func TestRatingController_Moderation(t *testing.T) {
	env := setupControllerTest(t)
	owner := env.register(t, "Owner", "owner@example.com", model.StatusApproved)
	businessID := createBusiness(t, env, owner, map[string]interface{}{"company_name": "Acme"})

	w := env.doJSON(http.MethodPost, "/api/ratings", memberToken(t, owner), ratingBody(businessID, 4, "ok"))
	require.Equal(t, http.StatusCreated, w.Code)
	ratingID := uint(decodeBody(t, w)["data"].(map[string]interface{})["id"].(float64))
	path := fmt.Sprintf("/api/%d/status", ratingID)

	w = env.doJSON(http.MethodPatch, path, memberToken(t, owner), RatingStatusRequest{Status: "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	moderator := adminToken(t, model.PermRatingsModerate)

	w = env.doJSON(http.MethodPatch, path, moderator, RatingStatusRequest{Status: "hidden"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RATING_INVALID_STATUS", decodeBody(t, w)["error"])

	w = env.doJSON(http.MethodPatch, path, moderator, RatingStatusRequest{Status: "Approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", decodeBody(t, w)["data"].(map[string]interface{})["status"])

	w = env.doJSON(http.MethodPatch, "/api/9999/status", moderator, RatingStatusRequest{Status: "rejected"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.doJSON(http.MethodGet, "/api/ratings/all", memberToken(t, owner), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(http.MethodGet, "/api/ratings/all", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 1)
}
