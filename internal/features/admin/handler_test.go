package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Anitej05/Civic-Connect/internal/features/reports"
	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
	apperrors "github.com/Anitej05/Civic-Connect/pkg/errors"
)

// fakeReportStore applies the repository contract in memory: conjunctive
// filters, offset paging over the filtered set, transition-guarded updates.
type fakeReportStore struct {
	reports  []reports.Report
	gotPage  int
	gotLimit int
}

func (f *fakeReportStore) ListForAdmin(_ context.Context, filter reports.AdminFilter, page, limit int) ([]reports.Report, int64, error) {
	f.gotPage, f.gotLimit = page, limit

	var matched []reports.Report
	for _, r := range f.reports {
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && string(r.Category) != filter.Category {
			continue
		}
		if filter.Department != "" && string(r.AssignedDepartment) != filter.Department {
			continue
		}
		matched = append(matched, r)
	}
	total := int64(len(matched))

	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []reports.Report{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeReportStore) UpdateStatus(_ context.Context, id string, target taxonomy.Status, note *reports.AdminNote, progressImageURL string) (*reports.Report, error) {
	for i := range f.reports {
		if f.reports[i].ID.Hex() != id {
			continue
		}
		if err := taxonomy.CanTransition(f.reports[i].Status, target); err != nil {
			return nil, err
		}
		f.reports[i].Status = target
		if note != nil {
			f.reports[i].AdminNotes = append(f.reports[i].AdminNotes, *note)
		}
		if progressImageURL != "" {
			f.reports[i].ProgressImages = append(f.reports[i].ProgressImages, progressImageURL)
		}
		f.reports[i].UpdatedAt = time.Now()
		return &f.reports[i], nil
	}
	return nil, apperrors.ErrNotFound
}

func adminRouter(store ReportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(store)

	r := gin.New()
	r.GET("/reports/admin/reports", handler.ListReports)
	r.PUT("/reports/admin/report/:id/status", func(c *gin.Context) {
		c.Set("userID", "admin_1")
		handler.UpdateStatus(c)
	})
	return r
}

func seededStore(n int) *fakeReportStore {
	store := &fakeReportStore{}
	for i := 0; i < n; i++ {
		store.reports = append(store.reports, reports.Report{
			ID:                 primitive.NewObjectID(),
			Title:              fmt.Sprintf("report %02d", i),
			Status:             taxonomy.StatusSubmitted,
			Category:           taxonomy.CategoryPothole,
			AssignedDepartment: taxonomy.DepartmentPublicWorks,
		})
	}
	return store
}

func TestListReports_PageTwoOfTwentyFive(t *testing.T) {
	store := seededStore(25)
	r := adminRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/admin/reports?page=2&limit=10", nil))

	require.Equal(t, 200, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, float64(25), resp["total"])
	require.Equal(t, float64(10), resp["limit"])
	require.Equal(t, float64(2), resp["page"])

	// items 11 through 20 of the filtered set
	data := resp["data"].([]any)
	require.Len(t, data, 10)
	require.Equal(t, "report 10", data[0].(map[string]any)["title"])
	require.Equal(t, "report 19", data[9].(map[string]any)["title"])
}

func TestListReports_ClampsPaging(t *testing.T) {
	store := seededStore(3)
	r := adminRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/admin/reports?page=0&limit=500", nil))

	require.Equal(t, 200, w.Code)
	require.Equal(t, 1, store.gotPage)
	require.Equal(t, 200, store.gotLimit)
}

func TestListReports_RejectsUnknownStatusFilter(t *testing.T) {
	r := adminRouter(seededStore(1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/admin/reports?status=Bogus", nil))

	require.Equal(t, 400, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "INVALID_FILTER", resp["code"])
}

func TestUpdateStatus_AppendsNote(t *testing.T) {
	store := seededStore(1)
	r := adminRouter(store)

	body := bytes.NewBufferString(`{"status":"In Progress","note":"crew dispatched"}`)
	req := httptest.NewRequest("PUT", "/reports/admin/report/"+store.reports[0].ID.Hex()+"/status", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	require.Equal(t, "In Progress", data["status"])

	notes := data["adminNotes"].([]any)
	require.Len(t, notes, 1)
	require.Equal(t, "crew dispatched", notes[0].(map[string]any)["note"])
	require.Equal(t, "admin_1", notes[0].(map[string]any)["author"])
}

func TestUpdateStatus_RejectsBackwardTransition(t *testing.T) {
	store := seededStore(1)
	store.reports[0].Status = taxonomy.StatusResolved
	r := adminRouter(store)

	body := bytes.NewBufferString(`{"status":"Submitted"}`)
	req := httptest.NewRequest("PUT", "/reports/admin/report/"+store.reports[0].ID.Hex()+"/status", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 422, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "INVALID_TRANSITION", resp["code"])
	require.Equal(t, taxonomy.StatusResolved, store.reports[0].Status)
}
