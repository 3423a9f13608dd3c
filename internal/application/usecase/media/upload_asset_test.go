package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vidshelf/internal/application/usecase/access"
	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/principal"
	"github.com/khoahotran/vidshelf/internal/testutil/memstore"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	args := m.Called(ctx, file, folder, publicID)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) Delete(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}

func setup(t *testing.T) (*UploadAssetUseCase, *MockUploader, channel.Channel, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := memstore.New()
	owner, viewer := uuid.New(), uuid.New()
	c := channel.Channel{ID: uuid.New(), OwnerID: owner, Title: "Acme", Slug: "acme", IsPublic: true}
	store.AddChannel(c, owner, channel.RoleOwner)
	store.AddMember(c.ID, viewer, channel.RoleMember)

	log := logger.NewNop()
	up := new(MockUploader)
	return NewUploadAssetUseCase(access.NewResolver(store.Channels(), store.Members(), log), up, log), up, c, owner, viewer
}

func as(id uuid.UUID) context.Context {
	return principal.WithPrincipal(context.Background(), principal.Principal{ID: id})
}

func TestUploadAsset(t *testing.T) {
	uc, up, c, owner, _ := setup(t)
	folder := "channels/" + c.ID.String() + "/thumbnail"
	up.On("Upload", mock.Anything, mock.Anything, folder, mock.AnythingOfType("string")).
		Return("https://cdn.example.com/thumb.jpg", nil).Once()

	out, err := uc.Execute(as(owner), UploadAssetInput{Slug: "acme", Kind: AssetThumbnail, File: strings.NewReader("jpeg")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", out.URL)
	up.AssertExpectations(t)
}

func TestUploadAsset_Rejected(t *testing.T) {
	uc, up, _, owner, viewer := setup(t)

	_, err := uc.Execute(as(owner), UploadAssetInput{Slug: "acme", Kind: "poster", File: strings.NewReader("x")})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = uc.Execute(as(owner), UploadAssetInput{Slug: "acme", Kind: AssetFull})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = uc.Execute(as(viewer), UploadAssetInput{Slug: "acme", Kind: AssetFull, File: strings.NewReader("x")})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadAsset_StorageFailure(t *testing.T) {
	uc, up, _, owner, _ := setup(t)
	up.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable")).Once()

	_, err := uc.Execute(as(owner), UploadAssetInput{Slug: "acme", Kind: AssetPreview, File: strings.NewReader("x")})
	assert.Equal(t, apperror.KindUnknown, apperror.KindOf(err))
}
