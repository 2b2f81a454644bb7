package admins

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erikawesome453-wq/task-dash-earn/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func adminAction(t *testing.T, userID uint, action string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/users/%d/%s", userID, action), nil)
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprintf("%d", userID)})
	rec := httptest.NewRecorder()
	if action == "promote" {
		PromoteUser(rec, req)
	} else {
		DemoteUser(rec, req)
	}
	return rec
}

func TestPromoteUser_GrantsAdminOnce(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "newadmin")

	require.Equal(t, http.StatusOK, adminAction(t, user.ID, "promote").Code)

	isAdmin, err := models.IsAdmin(db, user.ID)
	require.NoError(t, err)
	require.True(t, isAdmin)

	// promoting twice conflicts
	require.Equal(t, http.StatusConflict, adminAction(t, user.ID, "promote").Code)
}

func TestDemoteUser_LastAdminProtected(t *testing.T) {
	db := setupDB(t)
	only := createProfile(t, db, "lastone")
	require.NoError(t, db.Create(&models.AdminRole{UserID: only.ID}).Error)

	rec := adminAction(t, only.ID, "demote")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	isAdmin, err := models.IsAdmin(db, only.ID)
	require.NoError(t, err)
	require.True(t, isAdmin)
}

func TestDemoteUser_RevokesRole(t *testing.T) {
	db := setupDB(t)
	first := createProfile(t, db, "keeper")
	second := createProfile(t, db, "leaver")
	require.NoError(t, db.Create(&models.AdminRole{UserID: first.ID}).Error)
	require.NoError(t, db.Create(&models.AdminRole{UserID: second.ID}).Error)

	require.Equal(t, http.StatusOK, adminAction(t, second.ID, "demote").Code)

	isAdmin, err := models.IsAdmin(db, second.ID)
	require.NoError(t, err)
	require.False(t, isAdmin)
}

func TestDemoteUser_NotAdmin(t *testing.T) {
	db := setupDB(t)
	user := createProfile(t, db, "civilian")

	require.Equal(t, http.StatusNotFound, adminAction(t, user.ID, "demote").Code)
}
