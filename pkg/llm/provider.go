// Package llm provides abstractions for AI backend integration.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/pagesage/pagesage/pkg/llm"
//	    "github.com/pagesage/pagesage/pkg/llm/gemini"
//	)
//
//	func main() {
//	    provider, err := gemini.NewProvider(
//	        os.Getenv("GEMINI_API_KEY"),
//	        gemini.WithModel("gemini-1.5-flash"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    registry := llm.NewRegistry()
//	    registry.Register("gemini", provider)
//
//	    answer, err := registry.Dispatch(context.Background(), "Hello!", nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(answer)
//	}
package llm

import (
	"context"

	"github.com/pagesage/pagesage/pkg/types"
)

// Provider defines the uniform completion contract over interchangeable AI
// backends.
//
// Providers handle API communication with a single backend and translate its
// request/response shapes to and from this signature. This design keeps
// providers focused on backend concerns without coupling them to prompt
// construction or orchestration.
//
// The engine layer is responsible for:
// - Building backend-agnostic prompts
// - Selecting the active provider via the Registry
// - Converting provider errors into user-safe fallback answers
//
// This separation allows providers to be:
// - Reusable outside the engine (batch tooling, evaluation scripts, etc.)
// - Testable independently against local HTTP fixtures
// - Simpler to implement and maintain
type Provider interface {
	// Complete sends a prompt to the backend and returns its raw textual
	// answer, unmodified except for transport decoding.
	//
	// The prompt must be non-empty. Implementations must not mutate shared
	// state; their only side effect is the network call.
	//
	// Errors are translated into the package taxonomy: ErrUnavailable for
	// transport failures, a RejectedError when the backend refuses the
	// content, and a MalformedError when the response cannot be parsed.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the backend's identifier, used in logs and error
	// messages.
	Name() string
}

// VisionProvider is implemented by providers that accept still images
// alongside the prompt. Image parts are encoded as inline payloads tagged
// with their media type and must precede the text part in the payload
// ordering sent to the backend.
type VisionProvider interface {
	Provider

	// CompleteWithImages behaves like Complete with the given images
	// attached. images must be non-empty; callers with no images use
	// Complete instead.
	CompleteWithImages(ctx context.Context, prompt string, images []types.EncodedImage) (string, error)
}
