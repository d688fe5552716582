package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/podium/internal/clock"
)

func intPtr(i int) *int { return &i }

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		loc   Location
		want  string
	}{
		{"home", Codec{}, Location{}, "/"},
		{"horizontal only", Codec{}, Location{H: 2}, "/2"},
		{"vertical", Codec{}, Location{H: 1, V: 1}, "/1/1"},
		{"vertical at top of first", Codec{}, Location{V: 2}, "/0/2"},
		{"one based", Codec{OneBased: true}, Location{H: 1, V: 1}, "/2/2"},
		{"one based home", Codec{OneBased: true}, Location{}, "/"},
		{"id preferred", Codec{}, Location{H: 3, ID: "intro"}, "/intro"},
		{"id escaped", Codec{}, Location{ID: "q&a time"}, "/q&a%20time"},
		{"fragment ignored when off", Codec{}, Location{H: 1, F: intPtr(2)}, "/1"},
		{"fragment forces numeric", Codec{FragmentInURL: true}, Location{H: 1, F: intPtr(2), ID: "x"}, "/1/0/2"},
		{"fragment at home", Codec{FragmentInURL: true}, Location{F: intPtr(-1)}, "/0/0/-1"},
		{"id without fragment", Codec{FragmentInURL: true}, Location{H: 1, ID: "x"}, "/x"},
		{"numeric id falls back to index", Codec{}, Location{H: 1, ID: "2024"}, "/1"},
		{"numeric id one based", Codec{OneBased: true}, Location{H: 1, V: 2, ID: "7"}, "/2/3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.codec.Encode(tt.loc))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		token string
		want  Decoded
	}{
		{"empty", Codec{}, "", Decoded{}},
		{"root", Codec{}, "/", Decoded{}},
		{"hash prefix", Codec{}, "#/3/1", Decoded{H: 3, V: 1}},
		{"id", Codec{}, "/intro", Decoded{ID: "intro"}},
		{"escaped id", Codec{}, "/q&a%20time", Decoded{ID: "q&a time"}},
		{"one based", Codec{OneBased: true}, "/2/2", Decoded{H: 1, V: 1}},
		{"one based zero clamps", Codec{OneBased: true}, "/0", Decoded{}},
		{"garbage vertical", Codec{}, "/2/x", Decoded{H: 2}},
		{"fragment off", Codec{}, "/1/0/2", Decoded{H: 1}},
		{"fragment on", Codec{FragmentInURL: true}, "/1/0/2", Decoded{H: 1, F: intPtr(2)}},
		{"fragment nan", Codec{FragmentInURL: true}, "/1/0/z", Decoded{H: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.codec.Decode(tt.token))
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		codec := Codec{
			OneBased:      rapid.Bool().Draw(t, "oneBased"),
			FragmentInURL: rapid.Bool().Draw(t, "fragmentInURL"),
		}
		loc := Location{
			H: rapid.IntRange(0, 50).Draw(t, "h"),
			V: rapid.IntRange(0, 20).Draw(t, "v"),
		}
		if codec.FragmentInURL && rapid.Bool().Draw(t, "hasF") {
			loc.F = intPtr(rapid.IntRange(-1, 9).Draw(t, "f"))
		}
		if rapid.Bool().Draw(t, "hasID") {
			loc.ID = rapid.OneOf(
				rapid.StringMatching(`[a-z][a-z0-9 _-]{0,12}`),
				rapid.StringMatching(`[0-9]{1,6}`),
			).Draw(t, "id")
		}

		got := codec.Decode(codec.Encode(loc))

		if loc.ID != "" && loc.F == nil && !isDigits(loc.ID) {
			require.Equal(t, Decoded{ID: loc.ID}, got)
			return
		}
		require.Equal(t, Decoded{H: loc.H, V: loc.V, F: loc.F}, got)
	})
}

func TestWriter_SkipsRepeatedToken(t *testing.T) {
	store := &MemoryStore{}
	w := NewWriter(store, &clock.Manual{})
	ctx := context.Background()

	w.Write(ctx, "/1")
	w.Write(ctx, "/1")
	w.Write(ctx, "/2")

	require.Equal(t, 2, store.Writes())
	require.Equal(t, "/2", w.Last())
	token, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "/2", token)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Load(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestWriter_RetriesTokenAfterFailedSave(t *testing.T) {
	store := &mockStore{}
	store.On("Save", mock.Anything, "/1").Return(errors.New("disk full")).Once()
	store.On("Save", mock.Anything, "/1").Return(nil).Once()
	w := NewWriter(store, &clock.Manual{})
	ctx := context.Background()

	w.Write(ctx, "/1")
	require.Empty(t, w.Last())

	w.Write(ctx, "/1")
	require.Equal(t, "/1", w.Last())

	w.Write(ctx, "/1")
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "Save", 2)
}

func TestWriter_FlushWritesPendingToken(t *testing.T) {
	store := &MemoryStore{}
	sched := &clock.Manual{}
	w := NewWriter(store, sched)
	ctx := context.Background()

	w.WriteDelayed(ctx, time.Second, func() string { return "/3" })
	w.Flush(ctx)

	require.Equal(t, 1, store.Writes())
	require.Equal(t, "/3", w.Last())
	require.True(t, sched.Last().Stopped())

	w.Flush(ctx)
	require.Equal(t, 1, store.Writes(), "nothing left to flush")
}

func TestWriter_DelayedCoalesces(t *testing.T) {
	store := &MemoryStore{}
	sched := &clock.Manual{}
	w := NewWriter(store, sched)
	ctx := context.Background()
	current := "/1"

	w.WriteDelayed(ctx, 800*time.Millisecond, func() string { return current })
	first := sched.Last()
	current = "/4"
	w.WriteDelayed(ctx, 800*time.Millisecond, func() string { return current })

	first.Fire()
	require.Zero(t, store.Writes(), "superseded write must not land")

	sched.Last().Fire()
	require.Equal(t, 1, store.Writes())
	require.Equal(t, "/4", w.Last())
}

func TestWriter_ImmediateCancelsDelayed(t *testing.T) {
	store := &MemoryStore{}
	sched := &clock.Manual{}
	w := NewWriter(store, sched)
	ctx := context.Background()

	w.WriteDelayed(ctx, time.Second, func() string { return "/9" })
	w.Write(ctx, "/2")
	sched.Last().Fire()

	require.Equal(t, 1, store.Writes())
	require.Equal(t, "/2", w.Last())
}

func TestMemoryStore_EmptyLoad(t *testing.T) {
	_, err := (&MemoryStore{}).Load(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "location")
	s := NewFileStore(path)
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, s.Save(ctx, "/3/1"))
	token, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "/3/1", token)

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}
