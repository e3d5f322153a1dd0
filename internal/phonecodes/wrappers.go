package phonecodes

import (
	"sync"

	"github.com/example/go-phonecodes/internal/phonecode"
)

var defaultService = sync.OnceValues(func() (*Service, error) {
	return NewDefaultService()
})

// Convert converts input with a Service over the embedded tables.
func Convert(input string, source, target phonecode.Alphabet, opts ...Option) (string, error) {
	s, err := defaultService()
	if err != nil {
		return "", err
	}
	return s.Convert(input, source, target, opts...)
}

// ConvertList converts inputs with a Service over the embedded tables.
func ConvertList(inputs []string, source, target phonecode.Alphabet, opts ...Option) ([]string, error) {
	s, err := defaultService()
	if err != nil {
		return nil, err
	}
	return s.ConvertList(inputs, source, target, opts...)
}

func ARPABETToIPA(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.ARPABET, phonecode.IPA, opts...)
}

func IPAToARPABET(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.IPA, phonecode.ARPABET, opts...)
}

func XSAMPAToIPA(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.XSAMPA, phonecode.IPA, opts...)
}

func IPAToXSAMPA(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.IPA, phonecode.XSAMPA, opts...)
}

func BuckeyeToIPA(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.Buckeye, phonecode.IPA, opts...)
}

func IPAToBuckeye(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.IPA, phonecode.Buckeye, opts...)
}

func TIMITToIPA(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.TIMIT, phonecode.IPA, opts...)
}

// IPAToTIMIT always fails: TIMIT closures cannot be recovered from IPA.
func IPAToTIMIT(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.IPA, phonecode.TIMIT, opts...)
}

// CallhomeToIPA converts a Callhome transcription in language.
func CallhomeToIPA(input, language string, opts ...Option) (string, error) {
	return Convert(input, phonecode.Callhome, phonecode.IPA, append(opts, WithLanguage(language))...)
}

// IPAToCallhome converts IPA to the Callhome alphabet of language.
func IPAToCallhome(input, language string, opts ...Option) (string, error) {
	return Convert(input, phonecode.IPA, phonecode.Callhome, append(opts, WithLanguage(language))...)
}

// DISCToIPA converts CELEX DISC. The language defaults to German.
func DISCToIPA(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.DISC, phonecode.IPA, opts...)
}

// IPAToDISC converts to CELEX DISC. The language defaults to German.
func IPAToDISC(input string, opts ...Option) (string, error) {
	return Convert(input, phonecode.IPA, phonecode.DISC, opts...)
}
