// Package util provides logging helpers and common error types.
package util

import (
	"errors"
	"fmt"
)

// Sentinel errors for generation failures. Callers dispatch on these with
// errors.Is; the typed errors below carry the offending identifier.
var (
	ErrMissingColumn     = errors.New("required column missing")
	ErrStationNotFound   = errors.New("station not found")
	ErrMalformedDocument = errors.New("malformed configuration document")
	ErrDNNotFound        = errors.New("distinguished name not found")
	ErrDNCollision       = errors.New("duplicate distinguished name")
	ErrClassNotFound     = errors.New("managed object class not found")
)

// MissingColumnError reports a parameter file whose header lacks a required column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("parameter file is missing required column %q", e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// StationNotFoundError reports a station identity absent from a parameter file.
type StationNotFoundError struct {
	Station string
}

func (e *StationNotFoundError) Error() string {
	return fmt.Sprintf("station %q not found in parameter file", e.Station)
}

func (e *StationNotFoundError) Unwrap() error {
	return ErrStationNotFound
}

// MalformedDocumentError reports configuration document bytes that are not
// well-formed XML or do not carry the managed-object structure.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed configuration document: %s: %v", e.Reason, e.Err)
	}
	return "malformed configuration document: " + e.Reason
}

func (e *MalformedDocumentError) Unwrap() error {
	return ErrMalformedDocument
}

// DNNotFoundError reports a distinguished name that does not resolve in a document.
type DNNotFoundError struct {
	DN string
}

func (e *DNNotFoundError) Error() string {
	return fmt.Sprintf("distinguished name %q not found in document", e.DN)
}

func (e *DNNotFoundError) Unwrap() error {
	return ErrDNNotFound
}

// DNCollisionError reports an insertion that would duplicate a distinguished name.
type DNCollisionError struct {
	DN string
}

func (e *DNCollisionError) Error() string {
	return fmt.Sprintf("distinguished name %q already exists in document", e.DN)
}

func (e *DNCollisionError) Unwrap() error {
	return ErrDNCollision
}

// ClassNotFoundError reports a reference document with no managed object of a
// requested class. A missing template subtree is fatal for generation.
type ClassNotFoundError struct {
	Class string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("no managed object of class %q in reference document", e.Class)
}

func (e *ClassNotFoundError) Unwrap() error {
	return ErrClassNotFound
}
