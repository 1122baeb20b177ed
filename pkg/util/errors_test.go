package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMissingColumnError(t *testing.T) {
	err := &MissingColumnError{Column: "5G_IP"}
	if !strings.Contains(err.Error(), "5G_IP") {
		t.Errorf("Error() = %q, should name the column", err.Error())
	}
	if !errors.Is(err, ErrMissingColumn) {
		t.Error("should unwrap to ErrMissingColumn")
	}
}

func TestStationNotFoundError(t *testing.T) {
	err := &StationNotFoundError{Station: "ST-1"}
	if !strings.Contains(err.Error(), "ST-1") {
		t.Errorf("Error() = %q, should name the station", err.Error())
	}
	if !errors.Is(err, ErrStationNotFound) {
		t.Error("should unwrap to ErrStationNotFound")
	}
}

func TestMalformedDocumentError(t *testing.T) {
	inner := errors.New("unexpected EOF")
	err := &MalformedDocumentError{Reason: "not well-formed XML", Err: inner}
	if !strings.Contains(err.Error(), "unexpected EOF") {
		t.Errorf("Error() = %q, should include the cause", err.Error())
	}
	if !errors.Is(err, ErrMalformedDocument) {
		t.Error("should unwrap to ErrMalformedDocument")
	}

	bare := &MalformedDocumentError{Reason: "no root element"}
	if !strings.Contains(bare.Error(), "no root element") {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestDNErrors(t *testing.T) {
	nf := &DNNotFoundError{DN: "MRBTS-1/NRBTS-1"}
	if !errors.Is(nf, ErrDNNotFound) {
		t.Error("DNNotFoundError should unwrap to ErrDNNotFound")
	}
	if !strings.Contains(nf.Error(), "MRBTS-1/NRBTS-1") {
		t.Errorf("Error() = %q", nf.Error())
	}

	col := &DNCollisionError{DN: "MRBTS-1/IPNO-1"}
	if !errors.Is(col, ErrDNCollision) {
		t.Error("DNCollisionError should unwrap to ErrDNCollision")
	}
	if errors.Is(col, ErrDNNotFound) {
		t.Error("collision must not match ErrDNNotFound")
	}
}

func TestClassNotFoundError(t *testing.T) {
	err := &ClassNotFoundError{Class: "NRCellDU"}
	if !strings.Contains(err.Error(), "NRCellDU") {
		t.Errorf("Error() = %q, should name the class", err.Error())
	}
	if !errors.Is(err, ErrClassNotFound) {
		t.Error("should unwrap to ErrClassNotFound")
	}
}

func TestErrorsAsExtractsContext(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", &StationNotFoundError{Station: "Downtown_West"})

	var snf *StationNotFoundError
	if !errors.As(wrapped, &snf) {
		t.Fatal("errors.As should find StationNotFoundError through wrapping")
	}
	if snf.Station != "Downtown_West" {
		t.Errorf("Station = %q, want Downtown_West", snf.Station)
	}
	if !errors.Is(wrapped, ErrStationNotFound) {
		t.Error("wrapped error should still match the sentinel")
	}
}
