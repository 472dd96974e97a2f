package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/agencykit/runway/model/types"
)

const name = "notify"

// Service delivers a human-readable notification. The default sink is
// standard output; tests substitute their own writer.
type Service struct {
	writer io.Writer
}

type Input struct {
	// Channel is an opaque routing label, e.g. a team or client handle.
	Channel string
	Message string
}

type Output struct {
	Delivered bool   `json:"delivered"`
	Channel   string `json:"channel,omitempty"`
}

type Option func(*Service)

// WithWriter overrides the notification sink.
func WithWriter(w io.Writer) Option {
	return func(s *Service) { s.writer = w }
}

// New creates a new notify service
func New(options ...Option) *Service {
	ret := &Service{writer: os.Stdout}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "send",
			Description: "Sends a notification message to the configured sink.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "", "send":
		return s.send, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) send(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	if input.Channel != "" {
		fmt.Fprintf(s.writer, "[%s] %s\n", input.Channel, input.Message)
	} else {
		fmt.Fprintln(s.writer, input.Message)
	}
	if output, ok := out.(*Output); ok {
		output.Delivered = true
		output.Channel = input.Channel
	}
	return nil
}
