package phonecodes

import "github.com/example/go-phonecodes/internal/remap"

type options struct {
	language     string
	mapping      *remap.Dictionary
	requireInput bool
}

// Option configures a single conversion.
type Option func(*options)

// WithLanguage sets the ISO 639-3 language of the non-IPA side. Alphabets
// without language variants ignore it.
func WithLanguage(code string) Option {
	return func(o *options) { o.language = code }
}

// WithPostMapping applies d to the IPA output of the conversion.
func WithPostMapping(d *remap.Dictionary) Option {
	return func(o *options) { o.mapping = d }
}

// WithRequireInput makes input without any symbol a MalformedInputError.
func WithRequireInput() Option {
	return func(o *options) { o.requireInput = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
