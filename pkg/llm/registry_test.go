package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesage/pagesage/pkg/types"
)

// fakeProvider is a text-only provider that records the prompts it receives.
type fakeProvider struct {
	name    string
	answer  string
	err     error
	prompts []string
}

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func (f *fakeProvider) Name() string { return f.name }

// fakeVisionProvider additionally records attached images.
type fakeVisionProvider struct {
	fakeProvider
	images [][]types.EncodedImage
}

func (f *fakeVisionProvider) CompleteWithImages(_ context.Context, prompt string, images []types.EncodedImage) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.images = append(f.images, images)
	return f.answer, f.err
}

func TestRegistryFirstRegisteredBecomesActive(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeProvider{name: "a"})
	r.Register("b", &fakeProvider{name: "b"})

	assert.Equal(t, "a", r.Current())
	assert.Equal(t, []string{"a", "b"}, r.IDs())
}

func TestRegistrySelect(t *testing.T) {
	a := &fakeProvider{name: "a", answer: "from a"}
	b := &fakeProvider{name: "b", answer: "from b"}

	r := NewRegistry()
	r.Register("a", a)
	r.Register("b", b)

	require.NoError(t, r.Select("b"))
	assert.Equal(t, "b", r.Current())

	answer, err := r.Dispatch(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "from b", answer)
	assert.Empty(t, a.prompts, "previous provider must not receive dispatches after a switch")
}

func TestRegistrySelectUnknown(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeProvider{name: "a"})

	err := r.Select("missing")
	assert.Error(t, err)
	assert.Equal(t, "a", r.Current(), "failed select must not change the active provider")
}

func TestRegistryDispatchNoProvider(t *testing.T) {
	r := NewRegistry()

	_, err := r.Dispatch(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestRegistryDispatchEmptyPrompt(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeProvider{name: "a"})

	_, err := r.Dispatch(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestRegistryDispatchDropsImagesForTextOnlyProvider(t *testing.T) {
	p := &fakeProvider{name: "text-only", answer: "still answered"}
	r := NewRegistry()
	r.Register("text-only", p)

	images := []types.EncodedImage{"data:image/png;base64,aGVsbG8="}
	answer, err := r.Dispatch(context.Background(), "what is this?", images)

	require.NoError(t, err)
	assert.Equal(t, "still answered", answer)
	assert.Equal(t, []string{"what is this?"}, p.prompts)
}

func TestRegistryDispatchAttachesImagesForVisionProvider(t *testing.T) {
	p := &fakeVisionProvider{fakeProvider: fakeProvider{name: "vision", answer: "described"}}
	r := NewRegistry()
	r.Register("vision", p)

	images := []types.EncodedImage{"data:image/png;base64,aGVsbG8="}
	answer, err := r.Dispatch(context.Background(), "what is this?", images)

	require.NoError(t, err)
	assert.Equal(t, "described", answer)
	require.Len(t, p.images, 1)
	assert.Equal(t, images, p.images[0])
}

func TestRegistryDispatchPropagatesProviderError(t *testing.T) {
	boom := errors.New("connection refused")
	p := &fakeProvider{name: "a", err: Unavailable("a", boom)}
	r := NewRegistry()
	r.Register("a", p)

	_, err := r.Dispatch(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("unavailable wraps cause", func(t *testing.T) {
		cause := errors.New("dial tcp: timeout")
		err := Unavailable("gemini", cause)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("rejected preserves reason", func(t *testing.T) {
		err := &RejectedError{Provider: "gemini", Reason: "SAFETY"}
		var rejected *RejectedError
		require.ErrorAs(t, error(err), &rejected)
		assert.Contains(t, rejected.Error(), "SAFETY")
	})

	t.Run("malformed names provider", func(t *testing.T) {
		err := &MalformedError{Provider: "xai", Detail: "no choices in response"}
		assert.Contains(t, err.Error(), "xai")
	})
}
