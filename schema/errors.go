package schema

import (
	"errors"
)

var (
	ErrNotExist = errors.New("not_exist_record")

	ErrIdentityNotFound   = errors.New("identity_not_found")
	ErrUnsupportedNetwork = errors.New("unsupported_network")
	ErrMissingShaInput    = errors.New("missing_sha_of_param")
	ErrUpstreamStatus     = errors.New("upstream_status_not_ok")
	ErrUpscaling          = errors.New("upscaling_failure")
	ErrInvalidProfile     = errors.New("invalid_profile_payload")
	ErrInvalidSeed        = errors.New("invalid_account_seed")
	ErrUnknownKV          = errors.New("unknown_kv_backend")
)
