package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKindsHaveTags(t *testing.T) {
	for _, kind := range Kinds() {
		tag := kind.Tag()
		require.NotEmpty(t, tag, kind.String())
		back, ok := KindForTag(tag)
		require.True(t, ok)
		require.Equal(t, kind, back)
	}
	require.Equal(t, "", KindOther.Tag())
	_, ok := KindForTag("xsd:duration")
	require.False(t, ok)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindTimestamp, KindOf(time.Now()))
	require.Equal(t, KindDate, KindOf(NewDate(2023, time.May, 1)))
	require.Equal(t, KindTime, KindOf(NewTimeOfDay(12, 1, 2, 0)))
	require.Equal(t, KindBlob, KindOf([]byte{1, 2}))
	require.Equal(t, KindOther, KindOf("2023-05-01"))
	require.Equal(t, KindOther, KindOf(nil))
	require.Equal(t, KindOther, KindOf(42))
}

func TestUnexpectedKindPanics(t *testing.T) {
	require.Panics(t, func() {
		_ = Kind(99).Tag()
	})
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2023-05-01")
	require.NoError(t, err)
	require.Equal(t, NewDate(2023, time.May, 1), d)
	require.Equal(t, "2023-05-01", d.String())
	require.Equal(t, "0033-01-09", NewDate(33, time.January, 9).String())

	_, err = ParseDate("2023-13-01")
	require.Error(t, err)
	_, err = ParseDate("yesterday")
	require.Error(t, err)
}

func TestDateYearRange(t *testing.T) {
	for _, d := range []Date{NewDate(1, time.January, 1), NewDate(9999, time.December, 31)} {
		parsed, err := ParseDate(d.String())
		require.NoError(t, err)
		require.Equal(t, d, parsed)
	}
	d := NewDate(10000, time.January, 1)
	require.Equal(t, "10000-01-01", d.String())
	_, err := ParseDate(d.String())
	require.Error(t, err)
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("12:01:02")
	require.NoError(t, err)
	require.Equal(t, NewTimeOfDay(12, 1, 2, 0), tod)
	require.Equal(t, "12:01:02", tod.String())

	tod, err = ParseTimeOfDay("23:59:59.123456")
	require.NoError(t, err)
	require.Equal(t, NewTimeOfDay(23, 59, 59, 123456000), tod)
	require.Equal(t, "23:59:59.123456", tod.String())

	_, err = ParseTimeOfDay("25:00:00")
	require.Error(t, err)
}
