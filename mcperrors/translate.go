package mcperrors

import (
	"errors"
	"net/http"

	"github.com/redmcp/codec"
)

// KindOf classifies err into exactly one Kind.
// Wrappers are checked before what they wrap: a TransientFailureError around a
// 503 RemoteError is a transient failure, not a remote error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		parseErr     *ParseError
		notFound     *ToolNotFoundError
		missing      *MissingParameterError
		mismatch     *TypeMismatchError
		unknownParam *UnknownParameterError
		timeout      *TimeoutError
		transient    *TransientFailureError
		remote       *RemoteError
	)
	switch {
	case errors.As(err, &parseErr):
		return KindParseError
	case errors.As(err, &notFound):
		return KindToolNotFound
	case errors.As(err, &missing):
		return KindMissingParameter
	case errors.As(err, &mismatch):
		return KindTypeMismatch
	case errors.As(err, &unknownParam):
		return KindUnknownParameter
	case errors.As(err, &timeout), errors.As(err, &transient):
		return KindTransientFailure
	case errors.As(err, &remote):
		switch remote.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindAuth
		case http.StatusNotFound:
			return KindNotFound
		}
	}
	return KindUnknown
}

// Translate turns any error into the structured payload of a response.
// It never fails; unclassified errors keep their original message.
func Translate(err error) codec.Error {
	if err == nil {
		return codec.Error{Code: string(KindUnknown), Message: "unknown error"}
	}

	kind := KindOf(err)
	out := codec.Error{Code: string(kind), Message: err.Error()}

	switch kind {
	case KindToolNotFound:
		var e *ToolNotFoundError
		errors.As(err, &e)
		out.Detail = map[string]any{"tool": e.Name, "available_tools": nonNil(e.Available)}
	case KindMissingParameter:
		var e *MissingParameterError
		errors.As(err, &e)
		out.Detail = hintDetail(e.Name, e.ParamHint)
	case KindTypeMismatch:
		var e *TypeMismatchError
		errors.As(err, &e)
		out.Detail = hintDetail(e.Name, e.ParamHint)
		out.Detail["expected"] = e.Expected
		out.Detail["got"] = e.Got
	case KindUnknownParameter:
		var e *UnknownParameterError
		errors.As(err, &e)
		out.Detail = hintDetail(e.Name, e.ParamHint)
	case KindTransientFailure:
		out.Detail = transientDetail(err)
	case KindAuth, KindNotFound:
		var e *RemoteError
		errors.As(err, &e)
		out.Detail = remoteDetail(e)
	case KindUnknown:
		var e *RemoteError
		if errors.As(err, &e) {
			out.Detail = remoteDetail(e)
		}
	}
	return out
}

func hintDetail(name string, hint ParamHint) map[string]any {
	return map[string]any{
		"parameter":           name,
		"accepted_parameters": nonNil(hint.Accepted),
		"example_usage":       hint.Example,
	}
}

func remoteDetail(e *RemoteError) map[string]any {
	d := map[string]any{
		"status": e.StatusCode,
		"method": e.Method,
		"path":   e.Path,
	}
	if len(e.Errors) > 0 {
		d["errors"] = e.Errors
	}
	return d
}

func transientDetail(err error) map[string]any {
	d := map[string]any{}

	var timeout *TimeoutError
	var transient *TransientFailureError
	var last error
	if errors.As(err, &timeout) {
		d["timeout"] = true
		d["timeout_seconds"] = timeout.Timeout.Seconds()
		d["attempts"] = timeout.Attempts
		last = timeout.Err
	} else if errors.As(err, &transient) {
		d["timeout"] = false
		d["attempts"] = transient.Attempts
		last = transient.Err
	}
	if last != nil {
		d["last_error"] = last.Error()
		var remote *RemoteError
		if errors.As(last, &remote) {
			d["status"] = remote.StatusCode
		}
	}
	return d
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
