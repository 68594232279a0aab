package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "slambook_backend/internal/feature/auth/domain/entity"
	"slambook_backend/internal/feature/entries/domain/entity"
	"slambook_backend/internal/feature/entries/usecase"
	jwtmw "slambook_backend/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockEntryUsecase is a func-field mock of EntryUsecase.
type mockEntryUsecase struct {
	ListFunc           func(ctx context.Context, ownerID string, skip, limit int) ([]*entity.Entry, error)
	GetFunc            func(ctx context.Context, ownerID, id string) (*entity.Entry, error)
	CreateFunc         func(ctx context.Context, ownerID string, fields entity.Fields) (*entity.Entry, error)
	UpdateFunc         func(ctx context.Context, ownerID, id string, fields entity.Fields) (*entity.Entry, error)
	DeleteFunc         func(ctx context.Context, ownerID, id string) error
	ToggleFavoriteFunc func(ctx context.Context, ownerID, id string) (*entity.Entry, error)
	StatisticsFunc     func(ctx context.Context, ownerID string) (*entity.Statistics, error)
}

var errNotMocked = errors.New("not mocked")

func (m *mockEntryUsecase) List(ctx context.Context, ownerID string, skip, limit int) ([]*entity.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, skip, limit)
	}
	return nil, errNotMocked
}

func (m *mockEntryUsecase) Get(ctx context.Context, ownerID, id string) (*entity.Entry, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID, id)
	}
	return nil, errNotMocked
}

func (m *mockEntryUsecase) Create(ctx context.Context, ownerID string, fields entity.Fields) (*entity.Entry, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, fields)
	}
	return nil, errNotMocked
}

func (m *mockEntryUsecase) Update(ctx context.Context, ownerID, id string, fields entity.Fields) (*entity.Entry, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, id, fields)
	}
	return nil, errNotMocked
}

func (m *mockEntryUsecase) Delete(ctx context.Context, ownerID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	return errNotMocked
}

func (m *mockEntryUsecase) ToggleFavorite(ctx context.Context, ownerID, id string) (*entity.Entry, error) {
	if m.ToggleFavoriteFunc != nil {
		return m.ToggleFavoriteFunc(ctx, ownerID, id)
	}
	return nil, errNotMocked
}

func (m *mockEntryUsecase) Statistics(ctx context.Context, ownerID string) (*entity.Statistics, error) {
	if m.StatisticsFunc != nil {
		return m.StatisticsFunc(ctx, ownerID)
	}
	return nil, errNotMocked
}

var caller = &authentity.User{ID: "ann-id", Email: "ann@x.com", IsActive: true}

// setupRouter registers every entry route behind a stub that plays the role
// of AuthRequired. A nil user leaves the context empty.
func setupRouter(uc EntryUsecase, user *authentity.User) *gin.Engine {
	h := NewEntryHandler(uc)
	r := gin.New()
	g := r.Group("/entries", func(c *gin.Context) {
		if user != nil {
			c.Set(jwtmw.ContextUser, user)
		}
		c.Next()
	})
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/stats/statistics", h.Statistics)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/favorite", h.ToggleFavorite)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleEntry() *entity.Entry {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &entity.Entry{
		ID: "e1", UserID: "ann-id", Name: "Bob", Nickname: "B", Birthday: "2000-01-01",
		ContactNumber: "555", About: "a", Message: "m", Tags: []string{"school", "funny"},
		CreatedAt: ts, UpdatedAt: ts,
	}
}

func validBody() gin.H {
	return gin.H{
		"name": "Bob", "nickname": "B", "birthday": "2000-01-01", "contact_number": "555",
		"about": "a", "message": "m", "tags": []string{"school", "funny"},
	}
}

func TestEntryHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantSkip       int
		wantLimit      int
		expectedStatus int
	}{
		{"defaults", "", 0, 100, http.StatusOK},
		{"explicit values", "?skip=5&limit=10", 5, 10, http.StatusOK},
		{"zero limit", "?limit=0", 0, 0, http.StatusOK},
		{"negative skip", "?skip=-1", 0, 0, http.StatusUnprocessableEntity},
		{"negative limit", "?limit=-5", 0, 0, http.StatusUnprocessableEntity},
		{"non-numeric", "?skip=abc", 0, 0, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSkip, gotLimit int
			var gotOwner string
			uc := &mockEntryUsecase{ListFunc: func(ctx context.Context, ownerID string, skip, limit int) ([]*entity.Entry, error) {
				gotOwner, gotSkip, gotLimit = ownerID, skip, limit
				return []*entity.Entry{}, nil
			}}

			w := do(setupRouter(uc, caller), http.MethodGet, "/entries"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "ann-id", gotOwner)
				assert.Equal(t, tt.wantSkip, gotSkip)
				assert.Equal(t, tt.wantLimit, gotLimit)
				assert.JSONEq(t, `[]`, w.Body.String())
			}
		})
	}
}

func TestEntryHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got entity.Fields
		uc := &mockEntryUsecase{CreateFunc: func(ctx context.Context, ownerID string, fields entity.Fields) (*entity.Entry, error) {
			got = fields
			e := sampleEntry()
			e.UserID = ownerID
			return e, nil
		}}

		body := validBody()
		body["likes"] = "tea"
		w := do(setupRouter(uc, caller), http.MethodPost, "/entries", body)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Bob", got.Name)
		require.NotNil(t, got.Likes)
		assert.Equal(t, "tea", *got.Likes)
		assert.Nil(t, got.Dislikes)
		assert.False(t, got.IsFavorite, "is_favorite defaults to false")

		var res map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "e1", res["id"])
		assert.Equal(t, "ann-id", res["user_id"])
		assert.Equal(t, false, res["is_favorite"])
		assert.Equal(t, []any{"school", "funny"}, res["tags"])
		assert.Nil(t, res["likes"])
		assert.Contains(t, res, "created_at")
		assert.Contains(t, res, "updated_at")
	})

	t.Run("client cannot choose id or owner", func(t *testing.T) {
		var owner string
		uc := &mockEntryUsecase{CreateFunc: func(ctx context.Context, ownerID string, fields entity.Fields) (*entity.Entry, error) {
			owner = ownerID
			return sampleEntry(), nil
		}}

		body := validBody()
		body["user_id"] = "mallory-id"
		body["id"] = "chosen"
		w := do(setupRouter(uc, caller), http.MethodPost, "/entries", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "ann-id", owner)
	})

	missing := []string{"name", "nickname", "birthday", "contact_number", "about", "message"}
	for _, field := range missing {
		t.Run("missing "+field, func(t *testing.T) {
			body := validBody()
			delete(body, field)
			w := do(setupRouter(&mockEntryUsecase{}, caller), http.MethodPost, "/entries", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}

	t.Run("empty required strings are accepted", func(t *testing.T) {
		var got entity.Fields
		uc := &mockEntryUsecase{CreateFunc: func(ctx context.Context, ownerID string, fields entity.Fields) (*entity.Entry, error) {
			got = fields
			return sampleEntry(), nil
		}}

		body := validBody()
		body["about"] = ""
		body["message"] = ""
		body["nickname"] = ""
		w := do(setupRouter(uc, caller), http.MethodPost, "/entries", body)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "", got.About)
		assert.Equal(t, "", got.Message)
		assert.Equal(t, "", got.Nickname)
		assert.Equal(t, "Bob", got.Name)
	})

	t.Run("null required string counts as missing", func(t *testing.T) {
		body := validBody()
		body["about"] = nil
		w := do(setupRouter(&mockEntryUsecase{}, caller), http.MethodPost, "/entries", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("wrong type for tags", func(t *testing.T) {
		body := validBody()
		body["tags"] = "school"
		w := do(setupRouter(&mockEntryUsecase{}, caller), http.MethodPost, "/entries", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("store error", func(t *testing.T) {
		uc := &mockEntryUsecase{CreateFunc: func(ctx context.Context, ownerID string, fields entity.Fields) (*entity.Entry, error) {
			return nil, errors.New("db down")
		}}
		w := do(setupRouter(uc, caller), http.MethodPost, "/entries", validBody())
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"detail":"internal server error"}`, w.Body.String())
	})
}

// TestEntryHandler_ErrorMapping checks the status for each usecase error on
// every per-entry route. The 403 detail names the attempted operation.
func TestEntryHandler_ErrorMapping(t *testing.T) {
	routes := []struct {
		method    string
		path      string
		body      any
		forbidden string
	}{
		{http.MethodGet, "/entries/e1", nil, `{"detail":"Not authorized to access this entry"}`},
		{http.MethodPut, "/entries/e1", validBody(), `{"detail":"Not authorized to update this entry"}`},
		{http.MethodDelete, "/entries/e1", nil, `{"detail":"Not authorized to delete this entry"}`},
		{http.MethodPatch, "/entries/e1/favorite", nil, `{"detail":"Not authorized to modify this entry"}`},
	}

	for _, rt := range routes {
		cases := []struct {
			err            error
			expectedStatus int
			expectedBody   string
		}{
			{usecase.ErrEntryNotFound, http.StatusNotFound, `{"detail":"Entry not found"}`},
			{usecase.ErrForbidden, http.StatusForbidden, rt.forbidden},
			{errors.New("db down"), http.StatusInternalServerError, `{"detail":"internal server error"}`},
		}
		for _, tc := range cases {
			uc := &mockEntryUsecase{
				GetFunc: func(ctx context.Context, ownerID, id string) (*entity.Entry, error) { return nil, tc.err },
				UpdateFunc: func(ctx context.Context, ownerID, id string, fields entity.Fields) (*entity.Entry, error) {
					return nil, tc.err
				},
				DeleteFunc:         func(ctx context.Context, ownerID, id string) error { return tc.err },
				ToggleFavoriteFunc: func(ctx context.Context, ownerID, id string) (*entity.Entry, error) { return nil, tc.err },
			}
			t.Run(rt.method+" "+rt.path+" "+tc.err.Error(), func(t *testing.T) {
				w := do(setupRouter(uc, caller), rt.method, rt.path, rt.body)
				assert.Equal(t, tc.expectedStatus, w.Code)
				assert.JSONEq(t, tc.expectedBody, w.Body.String())
			})
		}
	}
}

func TestEntryHandler_Get(t *testing.T) {
	var gotOwner, gotID string
	uc := &mockEntryUsecase{GetFunc: func(ctx context.Context, ownerID, id string) (*entity.Entry, error) {
		gotOwner, gotID = ownerID, id
		return sampleEntry(), nil
	}}

	w := do(setupRouter(uc, caller), http.MethodGet, "/entries/e1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann-id", gotOwner)
	assert.Equal(t, "e1", gotID)
}

func TestEntryHandler_Update(t *testing.T) {
	var got entity.Fields
	uc := &mockEntryUsecase{UpdateFunc: func(ctx context.Context, ownerID, id string, fields entity.Fields) (*entity.Entry, error) {
		got = fields
		e := sampleEntry()
		fields.ApplyTo(e)
		return e, nil
	}}

	body := validBody()
	body["name"] = "Robert"
	body["is_favorite"] = true
	w := do(setupRouter(uc, caller), http.MethodPut, "/entries/e1", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Robert", got.Name)
	assert.True(t, got.IsFavorite)

	t.Run("validation runs before the usecase", func(t *testing.T) {
		called := false
		uc := &mockEntryUsecase{UpdateFunc: func(ctx context.Context, ownerID, id string, fields entity.Fields) (*entity.Entry, error) {
			called = true
			return sampleEntry(), nil
		}}
		w := do(setupRouter(uc, caller), http.MethodPut, "/entries/e1", gin.H{"name": "only"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, called)
	})
}

func TestEntryHandler_Delete(t *testing.T) {
	uc := &mockEntryUsecase{DeleteFunc: func(ctx context.Context, ownerID, id string) error { return nil }}

	w := do(setupRouter(uc, caller), http.MethodDelete, "/entries/e1", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestEntryHandler_ToggleFavorite(t *testing.T) {
	uc := &mockEntryUsecase{ToggleFavoriteFunc: func(ctx context.Context, ownerID, id string) (*entity.Entry, error) {
		e := sampleEntry()
		e.IsFavorite = true
		return e, nil
	}}

	w := do(setupRouter(uc, caller), http.MethodPatch, "/entries/e1/favorite", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, true, res["is_favorite"])
}

func TestEntryHandler_Statistics(t *testing.T) {
	t.Run("with entries", func(t *testing.T) {
		uc := &mockEntryUsecase{StatisticsFunc: func(ctx context.Context, ownerID string) (*entity.Statistics, error) {
			return &entity.Statistics{Total: 1, Favorites: 1, ByTag: map[string]int64{"school": 1, "funny": 1}}, nil
		}}
		w := do(setupRouter(uc, caller), http.MethodGet, "/entries/stats/statistics", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"total":1,"favorites":1,"by_tag":{"school":1,"funny":1}}`, w.Body.String())
	})

	t.Run("empty", func(t *testing.T) {
		uc := &mockEntryUsecase{StatisticsFunc: func(ctx context.Context, ownerID string) (*entity.Statistics, error) {
			return &entity.Statistics{}, nil
		}}
		w := do(setupRouter(uc, caller), http.MethodGet, "/entries/stats/statistics", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"total":0,"favorites":0,"by_tag":{}}`, w.Body.String())
	})
}

func TestEntryHandler_NoUserInContext(t *testing.T) {
	w := do(setupRouter(&mockEntryUsecase{}, nil), http.MethodGet, "/entries", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}
