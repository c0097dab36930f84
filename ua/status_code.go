// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import "fmt"

// StatusCode is the result of a service or operation. The high bit marks a Bad result.
type StatusCode uint32

const (
	severityMask      uint32 = 0xC0000000
	severityUncertain uint32 = 0x40000000
	severityBad       uint32 = 0x80000000
)

// IsGood returns true if the StatusCode is good.
func (c StatusCode) IsGood() bool {
	return uint32(c)&severityMask == 0
}

// IsUncertain returns true if the StatusCode is uncertain.
func (c StatusCode) IsUncertain() bool {
	return uint32(c)&severityMask == severityUncertain
}

// IsBad returns true if the StatusCode is bad.
func (c StatusCode) IsBad() bool {
	return uint32(c)&severityBad != 0
}

// Error implements the error interface.
func (c StatusCode) Error() string {
	if s, ok := statusCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("StatusCode(0x%08X)", uint32(c))
}

// String returns the symbolic name of the StatusCode.
func (c StatusCode) String() string {
	return c.Error()
}

// StatusCodes
const (
	Good                          StatusCode = 0x00000000
	Uncertain                     StatusCode = 0x40000000
	Bad                           StatusCode = 0x80000000
	BadUnexpectedError            StatusCode = 0x80010000
	BadInternalError              StatusCode = 0x80020000
	BadCommunicationError         StatusCode = 0x80050000
	BadEncodingError              StatusCode = 0x80060000
	BadDecodingError              StatusCode = 0x80070000
	BadEncodingLimitsExceeded     StatusCode = 0x80080000
	BadTimeout                    StatusCode = 0x800A0000
	BadServiceUnsupported         StatusCode = 0x800B0000
	BadShutdown                   StatusCode = 0x800C0000
	BadServerNotConnected         StatusCode = 0x800D0000
	BadNothingToDo                StatusCode = 0x800F0000
	BadTooManyOperations          StatusCode = 0x80100000
	BadDataTypeIDUnknown          StatusCode = 0x80110000
	BadSessionIDInvalid           StatusCode = 0x80250000
	BadSessionClosed              StatusCode = 0x80260000
	BadSubscriptionIDInvalid      StatusCode = 0x80280000
	BadWaitingForInitialData      StatusCode = 0x80320000
	BadNodeIDInvalid              StatusCode = 0x80330000
	BadNodeIDUnknown              StatusCode = 0x80340000
	BadAttributeIDInvalid         StatusCode = 0x80350000
	BadMonitoredItemIDInvalid     StatusCode = 0x80420000
	BadMonitoredItemFilterInvalid StatusCode = 0x80430000
	BadTypeMismatch               StatusCode = 0x80740000
	BadTooManyPublishRequests     StatusCode = 0x80780000
	BadNoSubscription             StatusCode = 0x80790000
	BadSequenceNumberUnknown      StatusCode = 0x807A0000
	BadMessageNotAvailable        StatusCode = 0x807B0000
	BadRequestTimeout             StatusCode = 0x80850000
	BadSecureChannelClosed        StatusCode = 0x80860000
	BadInvalidArgument            StatusCode = 0x80AB0000
	BadConnectionClosed           StatusCode = 0x80AE0000
	BadInvalidState               StatusCode = 0x80AF0000
	BadEndOfStream                StatusCode = 0x80B00000
	BadTooManyMonitoredItems      StatusCode = 0x80DB0000
	GoodSubscriptionTransferred   StatusCode = 0x002D0000
	GoodOverload                  StatusCode = 0x002F0000
)

var statusCodeNames = map[StatusCode]string{
	Good:                          "Good",
	Uncertain:                     "Uncertain",
	Bad:                           "Bad",
	BadUnexpectedError:            "BadUnexpectedError",
	BadInternalError:              "BadInternalError",
	BadCommunicationError:         "BadCommunicationError",
	BadEncodingError:              "BadEncodingError",
	BadDecodingError:              "BadDecodingError",
	BadEncodingLimitsExceeded:     "BadEncodingLimitsExceeded",
	BadTimeout:                    "BadTimeout",
	BadServiceUnsupported:         "BadServiceUnsupported",
	BadShutdown:                   "BadShutdown",
	BadServerNotConnected:         "BadServerNotConnected",
	BadNothingToDo:                "BadNothingToDo",
	BadTooManyOperations:          "BadTooManyOperations",
	BadDataTypeIDUnknown:          "BadDataTypeIdUnknown",
	BadSessionIDInvalid:           "BadSessionIdInvalid",
	BadSessionClosed:              "BadSessionClosed",
	BadSubscriptionIDInvalid:      "BadSubscriptionIdInvalid",
	BadWaitingForInitialData:      "BadWaitingForInitialData",
	BadNodeIDInvalid:              "BadNodeIdInvalid",
	BadNodeIDUnknown:              "BadNodeIdUnknown",
	BadAttributeIDInvalid:         "BadAttributeIdInvalid",
	BadMonitoredItemIDInvalid:     "BadMonitoredItemIdInvalid",
	BadMonitoredItemFilterInvalid: "BadMonitoredItemFilterInvalid",
	BadTypeMismatch:               "BadTypeMismatch",
	BadTooManyPublishRequests:     "BadTooManyPublishRequests",
	BadNoSubscription:             "BadNoSubscription",
	BadSequenceNumberUnknown:      "BadSequenceNumberUnknown",
	BadMessageNotAvailable:        "BadMessageNotAvailable",
	BadRequestTimeout:             "BadRequestTimeout",
	BadSecureChannelClosed:        "BadSecureChannelClosed",
	BadInvalidArgument:            "BadInvalidArgument",
	BadConnectionClosed:           "BadConnectionClosed",
	BadInvalidState:               "BadInvalidState",
	BadEndOfStream:                "BadEndOfStream",
	BadTooManyMonitoredItems:      "BadTooManyMonitoredItems",
	GoodSubscriptionTransferred:   "GoodSubscriptionTransferred",
	GoodOverload:                  "GoodOverload",
}
