// Package server provides the payload types shared by the HTTP interfaces
// to instruments
package server

import (
	"encoding/json"
	"fmt"
	"go/types"
	"net/http"
	"strconv"
)

// HumanPayload is a struct that holds the various possible payloads
// and can write itself back to a requester in their preferred format,
// plaintext or JSON
type HumanPayload struct {
	// T holds the type of the payload
	T types.BasicKind

	// Bool holds a binary value
	Bool bool

	// Int holds an integer value
	Int int

	// Float holds a floating point value
	Float float64

	// String holds a text value
	String string
}

// EncodeAndRespond writes the payload to w.  JSON if the request asks for
// it via the Accept header, plaintext otherwise.
func (hp HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Accept") == "application/json" {
		hp.encodeJSON(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	switch hp.T {
	case types.Bool:
		fmt.Fprintf(w, "%t", hp.Bool)
	case types.Int:
		fmt.Fprintf(w, "%d", hp.Int)
	case types.Float64:
		w.Write([]byte(strconv.FormatFloat(hp.Float, 'G', -1, 64)))
	case types.String:
		w.Write([]byte(hp.String))
	default:
		http.Error(w, fmt.Sprintf("unknown payload kind %v", hp.T), http.StatusInternalServerError)
	}
}

func (hp HumanPayload) encodeJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	var err error
	enc := json.NewEncoder(w)
	switch hp.T {
	case types.Bool:
		err = enc.Encode(BoolT{Bool: hp.Bool})
	case types.Int:
		err = enc.Encode(IntT{Int: hp.Int})
	case types.Float64:
		err = enc.Encode(FloatT{F64: hp.Float})
	case types.String:
		err = enc.Encode(StrT{Str: hp.String})
	default:
		err = fmt.Errorf("unknown payload kind %v", hp.T)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// FloatT is a struct with a single float64 field, used for json (un)marshaling
type FloatT struct {
	F64 float64 `json:"f64"`
}

// IntT is a struct with a single int field, used for json (un)marshaling
type IntT struct {
	Int int `json:"int"`
}

// StrT is a struct with a single string field, used for json (un)marshaling
type StrT struct {
	Str string `json:"str"`
}

// BoolT is a struct with a single bool field, used for json (un)marshaling
type BoolT struct {
	Bool bool `json:"bool"`
}
