package kernel_test

import (
	"sort"
	"testing"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a valid unique UUID", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		assert.False(t, id1.IsEqual(id2))
	})
}

func TestUUIDFromString(t *testing.T) {
	const valid = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("should parse canonical and urn forms", func(t *testing.T) {
		for _, in := range []string{valid, "urn:uuid:" + valid, "{" + valid + "}"} {
			id, err := kernel.UUIDFromString(in)
			require.NoError(t, err, in)
			assert.Equal(t, valid, id.String())
		}
	})

	t.Run("should reject garbage as invalid value", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round trip bytes", func(t *testing.T) {
		id := kernel.NewUUID()
		raw := id.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, id.IsEqual(restored))
	})

	t.Run("should reject nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(uuid.Nil[:])
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should reject short slices", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})
		require.Error(t, err)
	})
}

func TestUUID_Compare(t *testing.T) {
	a := kernel.MustUUIDFromString("00000000-0000-0000-0000-000000000001")
	b := kernel.MustUUIDFromString("00000000-0000-0000-0000-000000000002")
	c := kernel.MustUUIDFromString("10000000-0000-0000-0000-000000000000")

	ids := []kernel.UUID{c, a, b}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })

	assert.Equal(t, []kernel.UUID{a, b, c}, ids)
	assert.Equal(t, 0, a.Compare(a))
}

func TestUUID_ZeroValue(t *testing.T) {
	var id kernel.UUID
	require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
}
