package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/vidshelf/adapters/cache"
	"github.com/khoahotran/vidshelf/internal/application/usecase/access"
	catalogUC "github.com/khoahotran/vidshelf/internal/application/usecase/catalog"
	channelUC "github.com/khoahotran/vidshelf/internal/application/usecase/channel"
	mediaUC "github.com/khoahotran/vidshelf/internal/application/usecase/media"
	videoUC "github.com/khoahotran/vidshelf/internal/application/usecase/video"
	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/testutil/memstore"
	"github.com/khoahotran/vidshelf/pkg/auth"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	return "https://cdn.example.com/" + folder + "/" + publicID, nil
}

func (stubUploader) Delete(ctx context.Context, publicID string) error { return nil }

type APIE2ETestSuite struct {
	suite.Suite
	Router *gin.Engine
	store  *memstore.Store
	jwtSvc *auth.JWTService
	owner  uuid.UUID
	member uuid.UUID
}

func (s *APIE2ETestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	s.store = memstore.New()
	s.jwtSvc = auth.NewJWTService("e2e-secret", time.Hour)
	s.owner, s.member = uuid.New(), uuid.New()

	cRepo, mRepo, vRepo := s.store.Channels(), s.store.Members(), s.store.Videos()
	resolver := access.NewResolver(cRepo, mRepo, log)

	mr := miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })
	catalogCache := cache.NewRedisCatalogCache(client, time.Minute)
	catalog := catalogUC.NewCatalogUseCase(cRepo, vRepo, catalogCache, log)

	s.Router = NewRouter(Handlers{
		Channel: NewChannelHandler(
			channelUC.NewCreateChannelUseCase(cRepo, mRepo, nil, log),
			channelUC.NewMyChannelsUseCase(mRepo, resolver, log),
			log,
		),
		Video: NewVideoHandler(
			videoUC.NewListChannelVideosUseCase(resolver, vRepo, log),
			videoUC.NewCreateVideoUseCase(resolver, vRepo, nil, log),
			videoUC.NewUpdateVideoUseCase(resolver, vRepo, catalogCache, nil, log),
			videoUC.NewSetPublishedUseCase(resolver, vRepo, catalogCache, nil, log),
			log,
		),
		Media:   NewMediaHandler(mediaUC.NewUploadAssetUseCase(resolver, stubUploader{}, log), log),
		Catalog: NewCatalogHandler(catalog, log),
		RSS:     NewRSSHandler(catalog, log),
	}, Middlewares{
		Auth:  AuthMiddleware(s.jwtSvc, log),
		Error: ErrorMiddleware(log),
	})
}

func TestAPIE2E(t *testing.T) {
	suite.Run(t, new(APIE2ETestSuite))
}

func (s *APIE2ETestSuite) do(method, path string, as uuid.UUID, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != uuid.Nil {
		token, err := s.jwtSvc.GenerateToken(as)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](s *APIE2ETestSuite, w *httptest.ResponseRecorder) T {
	var out T
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *APIE2ETestSuite) createAcme() {
	w := s.do(http.MethodPost, "/api/channels", s.owner, gin.H{"name": "Acme", "slug": "acme"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	c, err := s.store.Channels().FindBySlug(context.Background(), "acme")
	s.Require().NoError(err)
	s.store.AddMember(c.ID, s.member, channel.RoleMember)
}

func (s *APIE2ETestSuite) Test_Walkthrough() {
	s.createAcme()

	w := s.do(http.MethodPost, "/api/channels/acme/videos", s.owner, gin.H{"title": "Ep1", "price_cents": 900})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := decode[VideoDTO](s, w)
	s.False(created.IsPublished)
	s.Zero(created.PriceCents)

	store := decode[StorefrontDTO](s, s.do(http.MethodGet, "/api/public/acme", uuid.Nil, nil))
	s.Empty(store.Videos)

	w = s.do(http.MethodPut, "/api/channels/acme/videos/"+created.ID+"/publish", s.owner, gin.H{"is_published": true})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	store = decode[StorefrontDTO](s, s.do(http.MethodGet, "/api/public/acme", uuid.Nil, nil))
	s.Require().Len(store.Videos, 1)
	s.Equal("Ep1", store.Videos[0].Title)

	w = s.do(http.MethodGet, "/api/public/acme/videos/"+created.ID, uuid.Nil, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/public/acme/rss", uuid.Nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "<title>Ep1</title>")

	mine := decode[[]MemberChannelDTO](s, s.do(http.MethodGet, "/api/channels", s.owner, nil))
	s.Require().Len(mine, 1)
	s.Equal("owner", mine[0].Role)

	w = s.do(http.MethodPut, "/api/channels/acme/videos/"+created.ID+"/publish", s.owner, gin.H{"is_published": false})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	store = decode[StorefrontDTO](s, s.do(http.MethodGet, "/api/public/acme", uuid.Nil, nil))
	s.Empty(store.Videos, "unpublished video is gone from the cached storefront")
	w = s.do(http.MethodGet, "/api/public/acme/videos/"+created.ID, uuid.Nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APIE2ETestSuite) Test_PremiumFullURLNeverPublic() {
	s.createAcme()

	publish := func(body gin.H) VideoDTO {
		w := s.do(http.MethodPost, "/api/channels/acme/videos", s.owner, body)
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		v := decode[VideoDTO](s, w)
		w = s.do(http.MethodPut, "/api/channels/acme/videos/"+v.ID+"/publish", s.owner, gin.H{"is_published": true})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		return v
	}
	paid := publish(gin.H{"title": "Paid", "is_premium": true, "price_cents": 499, "currency": "usd", "full_url": "https://cdn.example.com/paid.mp4"})
	free := publish(gin.H{"title": "Free", "full_url": "https://cdn.example.com/free.mp4"})

	store := decode[StorefrontDTO](s, s.do(http.MethodGet, "/api/public/acme", uuid.Nil, nil))
	s.Require().Len(store.Videos, 2)
	for _, v := range store.Videos {
		if v.IsPremium {
			s.Nil(v.FullURL)
		} else {
			s.NotNil(v.FullURL)
		}
	}

	page := decode[StorefrontVideoDTO](s, s.do(http.MethodGet, "/api/public/acme/videos/"+free.ID, uuid.Nil, nil))
	s.False(page.Locked)
	s.NotNil(page.Video.FullURL)
	s.Require().Len(page.Related, 1)
	s.Equal(paid.ID, page.Related[0].ID)
	s.Nil(page.Related[0].FullURL)

	page = decode[StorefrontVideoDTO](s, s.do(http.MethodGet, "/api/public/acme/videos/"+paid.ID, uuid.Nil, nil))
	s.True(page.Locked)
	s.Nil(page.Video.FullURL)

	// Managers still see the stored URL.
	all := decode[[]VideoDTO](s, s.do(http.MethodGet, "/api/channels/acme/videos", s.owner, nil))
	for _, v := range all {
		s.NotNil(v.FullURL, v.Title)
	}
}

func (s *APIE2ETestSuite) Test_AuthRequired() {
	w := s.do(http.MethodPost, "/api/channels", uuid.Nil, gin.H{"name": "Acme", "slug": "acme"})
	s.Equal(http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/channels", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APIE2ETestSuite) Test_ValidationAndConflict() {
	w := s.do(http.MethodPost, "/api/channels", s.owner, gin.H{"name": "A", "slug": "No"})
	s.Equal(http.StatusBadRequest, w.Code)
	body := decode[map[string]any](s, w)
	s.Equal("validation", body["error"])
	fields, ok := body["field_errors"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields, "name")
	s.Contains(fields, "slug")

	s.createAcme()
	w = s.do(http.MethodPost, "/api/channels", uuid.New(), gin.H{"name": "Other", "slug": "acme"})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *APIE2ETestSuite) Test_ForbiddenLooksLikeNotFound() {
	s.createAcme()

	forbidden := s.do(http.MethodPost, "/api/channels/acme/videos", s.member, gin.H{"title": "Nope"})
	missing := s.do(http.MethodPost, "/api/channels/ghost/videos", s.member, gin.H{"title": "Nope"})
	s.Equal(http.StatusNotFound, forbidden.Code)
	s.Equal(http.StatusNotFound, missing.Code)
	s.JSONEq(missing.Body.String(), forbidden.Body.String())

	role := decode[RoleResponse](s, s.do(http.MethodGet, "/api/channels/acme/role", s.member, nil))
	s.Require().NotNil(role.Role)
	s.Equal("member", *role.Role)

	role = decode[RoleResponse](s, s.do(http.MethodGet, "/api/channels/acme/role", uuid.New(), nil))
	s.Nil(role.Role)

	list := decode[[]VideoDTO](s, s.do(http.MethodGet, "/api/channels/acme/videos", uuid.New(), nil))
	s.Empty(list)
}

func (s *APIE2ETestSuite) Test_PublishRequiresFlag() {
	s.createAcme()
	created := decode[VideoDTO](s, s.do(http.MethodPost, "/api/channels/acme/videos", s.owner, gin.H{"title": "Ep1"}))

	w := s.do(http.MethodPut, "/api/channels/acme/videos/"+created.ID+"/publish", s.owner, gin.H{})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/channels/acme/videos/not-a-uuid/publish", s.owner, gin.H{"is_published": true})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APIE2ETestSuite) Test_UploadAsset() {
	s.createAcme()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("kind", "thumbnail"))
	part, err := mw.CreateFormFile("file", "thumb.jpg")
	s.Require().NoError(err)
	_, err = part.Write([]byte("jpeg"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/channels/acme/assets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	token, err := s.jwtSvc.GenerateToken(s.owner)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Contains(decode[map[string]string](s, w)["url"], "/thumbnail/")
}

func (s *APIE2ETestSuite) Test_HealthAndMetrics() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", uuid.Nil, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/metrics", uuid.Nil, nil).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	router := gin.New()
	router.Use(RateLimitMiddleware(client, 2, time.Minute, logger.NewNop()))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	mr.Close()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected request to pass when redis is down, got %d", w.Code)
	}
}
