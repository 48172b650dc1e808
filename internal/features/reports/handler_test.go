package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Anitej05/Civic-Connect/internal/geo"
)

func testRouter(store *fakeStore, svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(store, svc)

	r := gin.New()
	asUser := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("userID", "user_2abc")
			h(c)
		}
	}
	r.POST("/reports/smart-create", asUser(handler.SmartCreate))
	r.GET("/reports/nearby", handler.Nearby)
	r.GET("/reports/my-reports", asUser(handler.MyReports))
	r.POST("/reports/:id/upvote", asUser(handler.Upvote))
	return r
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestSmartCreate_EndToEnd(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{url: "u"}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	body, contentType := multipartBody(t, map[string]string{
		"description": "large pothole on Main St",
		"latitude":    "17.3850",
		"longitude":   "78.4867",
		"address":     "Main St & 3rd Ave",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports/smart-create", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, 201, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "success", resp["status"])

	data := resp["data"].(map[string]any)
	require.Equal(t, "Pothole", data["category"])
	require.Equal(t, "Public Works", data["assignedDepartment"])
	require.Equal(t, "Submitted", data["status"])
	require.Equal(t, "user_2abc", data["userId"])
	require.Equal(t, "Main St & 3rd Ave", data["address"])
}

func TestSmartCreate_MissingCoordinates(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	body, contentType := multipartBody(t, map[string]string{
		"description": "pothole",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports/smart-create", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, 400, w.Code)
}

func TestSmartCreate_OutOfRangeCoordinates(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	body, contentType := multipartBody(t, map[string]string{
		"description": "pothole",
		"latitude":    "123.0",
		"longitude":   "78.4867",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports/smart-create", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, 400, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "INVALID_COORDINATES", resp["code"])
}

func TestSmartCreate_NoEvidence(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	body, contentType := multipartBody(t, map[string]string{
		"latitude":  "17.3850",
		"longitude": "78.4867",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports/smart-create", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, 422, w.Code)
}

func TestNearby_Endpoint(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{url: "u"}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	_, err := svc.Submit(context.Background(), SubmitInput{
		UserID: "user_2abc", Text: "water leak", Latitude: 17.3855, Longitude: 78.4867,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/nearby?lat=17.3850&lng=78.4867&max_distance_meters=2000", nil))

	require.Equal(t, 200, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	require.Equal(t, "Water Leakage", first["category"])
	require.Greater(t, first["distanceMeters"].(float64), 0.0)
}

func TestNearby_MissingCoordinates(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/nearby?lng=78.4867", nil))
	require.Equal(t, 400, w.Code)
}

func TestUpvote_SecondVoteConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{url: "u"}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	report, err := svc.Submit(context.Background(), SubmitInput{
		UserID: "user_2xyz", Text: "deep pothole", Latitude: 17.3850, Longitude: 78.4867,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/reports/"+report.ID.Hex()+"/upvote", nil))
	require.Equal(t, 200, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, float64(1), resp["data"].(map[string]any)["upvotes"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/reports/"+report.ID.Hex()+"/upvote", nil))
	require.Equal(t, 409, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "ALREADY_VOTED", resp["code"])

	// the rejected vote left the count and voter set untouched
	stored := store.byID[report.ID.Hex()]
	require.Equal(t, 1, stored.Upvotes)
	require.Equal(t, []string{"user_2abc"}, stored.UpvotedBy)
}

func TestUpvote_UnknownReport(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/reports/"+primitive.NewObjectID().Hex()+"/upvote", nil))
	require.Equal(t, 404, w.Code)
}

func TestMyReports_PageTwoOfTwentyFive(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, &fakeMedia{url: "u"}, geo.NewMemoryIndex())
	r := testRouter(store, svc)

	for i := 0; i < 25; i++ {
		_, err := svc.Submit(context.Background(), SubmitInput{
			UserID: "user_2abc", Text: fmt.Sprintf("pothole %02d", i),
			Latitude: 17.3850, Longitude: 78.4867,
		})
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/my-reports?page=2&limit=10", nil))

	require.Equal(t, 200, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, float64(25), resp["total"])
	require.Equal(t, float64(10), resp["limit"])
	require.Equal(t, float64(2), resp["page"])

	// newest first, so page 2 holds submissions 14 down to 05
	data := resp["data"].([]any)
	require.Len(t, data, 10)
	require.Equal(t, "pothole 14", data[0].(map[string]any)["originalText"])
	require.Equal(t, "pothole 05", data[9].(map[string]any)["originalText"])
}
