// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// DiagnosticInfo holds additional info regarding errors in service calls.
// Index fields refer to the string table of the response header; -1 means absent.
type DiagnosticInfo struct {
	SymbolicID          int32
	NamespaceURI        int32
	Locale              int32
	LocalizedText       int32
	AdditionalInfo      string
	InnerStatusCode     StatusCode
	InnerDiagnosticInfo *DiagnosticInfo
}

// NewDiagnosticInfo constructs new DiagnosticInfo
func NewDiagnosticInfo(symbolicID int32, namespaceURI int32, locale int32, localizedText int32, additionalInfo string, innerStatusCode StatusCode, innerDiagnosticInfo *DiagnosticInfo) *DiagnosticInfo {
	return &DiagnosticInfo{symbolicID, namespaceURI, locale, localizedText, additionalInfo, innerStatusCode, innerDiagnosticInfo}
}

// NilDiagnosticInfo is the value with no fields present.
var NilDiagnosticInfo = DiagnosticInfo{-1, -1, -1, -1, "", Good, nil}

func (info *DiagnosticInfo) encodingMask() byte {
	var b byte
	if info.SymbolicID >= 0 {
		b |= 1
	}
	if info.NamespaceURI >= 0 {
		b |= 2
	}
	if info.LocalizedText >= 0 {
		b |= 4
	}
	if info.Locale >= 0 {
		b |= 8
	}
	if len(info.AdditionalInfo) > 0 {
		b |= 16
	}
	if info.InnerStatusCode != Good {
		b |= 32
	}
	if info.InnerDiagnosticInfo != nil {
		b |= 64
	}
	return b
}
