package repo

import (
	"context"
	"testing"

	"StampVault/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullStamp() model.Stamp {
	date := "2024-03-15"
	return model.Stamp{
		ID:            "s1",
		AddedAt:       1710500000000,
		Year:          1959,
		FaceValue:     decimal.NewNullDecimal(decimal.RequireFromString("3")),
		Price:         decimal.RequireFromString("10.25"),
		EstValue:      decimal.NewNullDecimal(decimal.RequireFromString("50")),
		PurchaseDate:  &date,
		Condition:     "Mint NH",
		SignatureType: "Unsigned",
		Acquisition:   "Auction",
		Artist:        "Maynard Reece",
		Species:       "King Eiders",
		Scott:         "RW26",
		PlatePos:      "UL 12345",
		Notes:         "Nice centering",
		ImageID:       "img1",
	}
}

func TestStampRepository_PutGet_RoundTrip(t *testing.T) {
	r := NewStampRepository(newTestDB(t))
	ctx := context.Background()

	want := fullStamp()
	require.NoError(t, r.Put(ctx, &want))

	got, err := r.Get(ctx, "s1")
	require.NoError(t, err)
	requireSameStamp(t, want, *got)
}

func TestStampRepository_PutGet_KeepsLargeAmountsExact(t *testing.T) {
	r := NewStampRepository(newTestDB(t))
	ctx := context.Background()

	want := model.Stamp{
		ID:       "big",
		Year:     1959,
		Price:    decimal.RequireFromString("12345678901234567.89"),
		EstValue: decimal.NewNullDecimal(decimal.RequireFromString("0.1234567890123456789")),
	}
	require.NoError(t, r.Put(ctx, &want))

	got, err := r.Get(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567.89", got.Price.String())
	require.True(t, got.EstValue.Valid)
	assert.Equal(t, "0.1234567890123456789", got.EstValue.Decimal.String())

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, want.Price.Equal(all[0].Price))
}

func TestStampRepository_PutGet_AbsentOptionalFields(t *testing.T) {
	r := NewStampRepository(newTestDB(t))
	ctx := context.Background()

	// без даты, без face/est, без изображения и без addedAt
	want := model.Stamp{ID: "bare", Year: 1934, Price: decimal.Zero}
	require.NoError(t, r.Put(ctx, &want))

	got, err := r.Get(ctx, "bare")
	require.NoError(t, err)
	assert.Nil(t, got.PurchaseDate)
	assert.False(t, got.FaceValue.Valid)
	assert.False(t, got.EstValue.Valid)
	assert.Zero(t, got.AddedAt)
	requireSameStamp(t, want, *got)
}

func TestStampRepository_Put_OverwritesFullRecord(t *testing.T) {
	r := NewStampRepository(newTestDB(t))
	ctx := context.Background()

	first := fullStamp()
	require.NoError(t, r.Put(ctx, &first))

	// повторный Put по тому же ID заменяет все поля, включая очищенные
	second := model.Stamp{ID: "s1", AddedAt: first.AddedAt, Year: 1991, Price: decimal.NewFromInt(5)}
	require.NoError(t, r.Put(ctx, &second))

	got, err := r.Get(ctx, "s1")
	require.NoError(t, err)
	requireSameStamp(t, second, *got)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStampRepository_Get_NotFound(t *testing.T) {
	r := NewStampRepository(newTestDB(t))

	got, err := r.Get(context.Background(), "nope")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStampRepository_Delete_And_GetAll(t *testing.T) {
	r := NewStampRepository(newTestDB(t))
	ctx := context.Background()

	a := model.Stamp{ID: "a", Year: 1934}
	b := model.Stamp{ID: "b", Year: 2020}
	require.NoError(t, r.Put(ctx, &a))
	require.NoError(t, r.Put(ctx, &b))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, r.Delete(ctx, "a"))
	// повторное удаление — не ошибка
	require.NoError(t, r.Delete(ctx, "a"))

	_, err = r.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err = r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)
}

func TestStampRepository_Put_EmptyID(t *testing.T) {
	r := NewStampRepository(newTestDB(t))
	err := r.Put(context.Background(), &model.Stamp{Year: 1950})
	assert.ErrorIs(t, err, model.ErrEmptyIdentifier)
}
