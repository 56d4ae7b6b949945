package handlers_test

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/edulytics/edulytics-server/internal/api/handlers"
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestTopicHandler_RoleGate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	semesters := testutil.SeedAcademics(t, ts.DB.DB)

	anonymous := ts.NewClient(t)
	student := ts.NewClient(t)
	testutil.NewUserBuilder().AsStudent(semesters[0]).BuildAndLogin(t, ts, student)

	url := ts.APIURL("/topics?semesterId=" + itoa(semesters[0]))

	resp := testutil.DoJSON(t, anonymous, http.MethodGet, url, nil)
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "User not authenticated")
	resp.Body.Close()

	resp = testutil.DoJSON(t, student, http.MethodGet, url, nil)
	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "Access denied")
	resp.Body.Close()

	resp = testutil.PostJSON(t, student, ts.APIURL("/topics"), map[string]any{"semesterId": semesters[0], "name": "Graphs"})
	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "Access denied")
	resp.Body.Close()
}

func TestTopicHandler_CRUD(t *testing.T) {
	ts := testutil.NewTestServer(t)
	semesters := testutil.SeedAcademics(t, ts.DB.DB)

	teacher := ts.NewClient(t)
	testutil.NewUserBuilder().BuildAndLogin(t, ts, teacher)
	other := ts.NewClient(t)
	testutil.NewUserBuilder().BuildAndLogin(t, ts, other)

	create := func(client *http.Client, name string) *http.Response {
		return testutil.PostJSON(t, client, ts.APIURL("/topics"), map[string]any{
			"semesterId": semesters[0],
			"name":       name,
		})
	}

	resp := create(teacher, "  Sorting  ")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var first handlers.CreateTopicResponse
	testutil.AssertJSONResponse(t, resp, &first)
	resp.Body.Close()
	assert.Equal(t, "Topic added successfully", first.Message)

	resp = create(teacher, "Graphs")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var second handlers.CreateTopicResponse
	testutil.AssertJSONResponse(t, resp, &second)
	resp.Body.Close()

	t.Run("duplicate name", func(t *testing.T) {
		resp := create(teacher, "Sorting")
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusConflict, "Topic already exists")
	})

	t.Run("same name for another teacher", func(t *testing.T) {
		resp := create(other, "Sorting")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("name too short", func(t *testing.T) {
		resp := create(teacher, " x ")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list own topics newest first", func(t *testing.T) {
		resp := testutil.DoJSON(t, teacher, http.MethodGet, ts.APIURL("/topics?semesterId="+itoa(semesters[0])), nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var topics []domain.Topic
		testutil.AssertJSONResponse(t, resp, &topics)
		require.Len(t, topics, 2)
		assert.Equal(t, "Graphs", topics[0].Name)
		assert.Equal(t, "Sorting", topics[1].Name)
	})

	t.Run("missing semester id", func(t *testing.T) {
		resp := testutil.DoJSON(t, teacher, http.MethodGet, ts.APIURL("/topics"), nil)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "semesterId is required")
	})

	t.Run("rename", func(t *testing.T) {
		resp := testutil.DoJSON(t, teacher, http.MethodPatch, ts.APIURL(fmt.Sprintf("/topics/%d", first.ID)), map[string]string{"name": "Sorting II"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("rename to existing name", func(t *testing.T) {
		resp := testutil.DoJSON(t, teacher, http.MethodPatch, ts.APIURL(fmt.Sprintf("/topics/%d", first.ID)), map[string]string{"name": "Graphs"})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusConflict, "Topic already exists")
	})

	t.Run("other teacher cannot touch it", func(t *testing.T) {
		resp := testutil.DoJSON(t, other, http.MethodDelete, ts.APIURL(fmt.Sprintf("/topics/%d", first.ID)), nil)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Topic not found")
	})

	t.Run("delete", func(t *testing.T) {
		resp := testutil.DoJSON(t, teacher, http.MethodDelete, ts.APIURL(fmt.Sprintf("/topics/%d", first.ID)), nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = testutil.DoJSON(t, teacher, http.MethodDelete, ts.APIURL(fmt.Sprintf("/topics/%d", first.ID)), nil)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Topic not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := testutil.DoJSON(t, teacher, http.MethodDelete, ts.APIURL("/topics/abc"), nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
