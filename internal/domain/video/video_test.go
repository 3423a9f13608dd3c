package video

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vidshelf/pkg/apperror"
)

func TestInputValidate(t *testing.T) {
	ok := Input{Title: "Ep1", IsPremium: true, PriceCents: 499, Currency: "USD"}
	require.NoError(t, ok.Validate())

	noCurrency := Input{Title: "Ep1"}
	assert.NoError(t, noCurrency.Validate(), "currency defaults to usd")

	bad := Input{
		Title:        " x ",
		Description:  strings.Repeat("d", 501),
		ThumbnailURL: "not a url",
		PreviewURL:   "https://cdn.example.com/p.mp4",
		FullURL:      "ftp//broken",
		PriceCents:   -1,
		Currency:     "toolongcode",
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	fields := apperror.FieldErrorsOf(err)
	for _, f := range []string{"title", "description", "thumbnail_url", "full_url", "price_cents", "currency"} {
		assert.Contains(t, fields, f)
	}
	assert.NotContains(t, fields, "preview_url")
}

func TestInputNormalize(t *testing.T) {
	f := Input{
		Title:        "  Ep1 ",
		Description:  "  ",
		ThumbnailURL: " https://cdn.example.com/t.png ",
		IsPremium:    false,
		PriceCents:   999,
		Currency:     " EUR ",
	}.Normalize()

	assert.Equal(t, "Ep1", f.Title)
	assert.Nil(t, f.Description)
	require.NotNil(t, f.ThumbnailURL)
	assert.Equal(t, "https://cdn.example.com/t.png", *f.ThumbnailURL)
	assert.Nil(t, f.PreviewURL)
	assert.Nil(t, f.FullURL)
	assert.Equal(t, int64(0), f.PriceCents, "free videos carry no price")
	assert.Equal(t, "eur", f.Currency)

	premium := Input{Title: "Ep2", IsPremium: true, PriceCents: 499, Currency: "USD"}.Normalize()
	assert.Equal(t, int64(499), premium.PriceCents)
	assert.Equal(t, "usd", premium.Currency)

	assert.Equal(t, DefaultCurrency, Input{Title: "Ep3"}.Normalize().Currency)
}

func TestNewDraft_AlwaysUnpublished(t *testing.T) {
	now := time.Now().UTC()
	v := NewDraft(uuid.New(), uuid.New(), Input{Title: "Ep1"}.Normalize(), now)

	assert.False(t, v.IsPublished)
	assert.Nil(t, v.PublishedAt)
	assert.Equal(t, now, v.CreatedAt)
}

func TestSetPublished(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := NewDraft(uuid.New(), uuid.New(), Input{Title: "Ep1"}.Normalize(), t0)

	assert.False(t, v.SetPublished(false, t0), "draft to draft is a no-op")
	assert.Nil(t, v.PublishedAt)

	t1 := t0.Add(time.Hour)
	assert.True(t, v.SetPublished(true, t1))
	require.NotNil(t, v.PublishedAt)
	assert.Equal(t, t1, *v.PublishedAt)

	t2 := t1.Add(time.Hour)
	assert.False(t, v.SetPublished(true, t2))
	assert.Equal(t, t1, *v.PublishedAt, "republishing keeps the first stamp")

	assert.True(t, v.SetPublished(false, t2))
	assert.False(t, v.IsPublished)
	assert.Nil(t, v.PublishedAt)
}

func TestApply_KeepsPublicationState(t *testing.T) {
	now := time.Now().UTC()
	v := NewDraft(uuid.New(), uuid.New(), Input{Title: "Ep1"}.Normalize(), now)
	v.SetPublished(true, now)
	stamp := *v.PublishedAt

	v.Apply(Input{Title: "Ep1 remastered", IsPremium: true, PriceCents: 100}.Normalize(), now.Add(time.Minute))
	assert.True(t, v.IsPublished)
	assert.Equal(t, stamp, *v.PublishedAt)
	assert.Equal(t, "Ep1 remastered", v.Title)
}

func TestFormatPrice(t *testing.T) {
	assert.Contains(t, FormatPrice(499, "usd"), "4.99")
	assert.Contains(t, FormatPrice(499, "usd"), "$")
	assert.Equal(t, "2.50 CREDITS", FormatPrice(250, "credits"))

	free := &Video{IsPremium: false, PriceCents: 0, Currency: "usd"}
	assert.Equal(t, "", free.Price())
}
