// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import "time"

// ServiceRequest is a request of a service call.
type ServiceRequest interface {
	Header() *RequestHeader
}

// ServiceResponse is a response of a service call.
type ServiceResponse interface {
	Header() *ResponseHeader
}

// RequestHeader is the common header of every request.
type RequestHeader struct {
	AuthenticationToken NodeID
	Timestamp           time.Time
	RequestHandle       uint32
	ReturnDiagnostics   uint32
	AuditEntryID        string
	TimeoutHint         uint32
	AdditionalHeader    *ExtensionObject
}

// ResponseHeader is the common header of every response.
type ResponseHeader struct {
	Timestamp          time.Time
	RequestHandle      uint32
	ServiceResult      StatusCode
	ServiceDiagnostics *DiagnosticInfo
	StringTable        []string
	AdditionalHeader   *ExtensionObject
}

// ServiceFault is returned instead of the response when the service fails.
type ServiceFault struct {
	ResponseHeader ResponseHeader
}

// MonitoringMode enumerates the monitoring modes of a monitored item.
type MonitoringMode int32

// MonitoringModes
const (
	MonitoringModeDisabled  MonitoringMode = 0
	MonitoringModeSampling  MonitoringMode = 1
	MonitoringModeReporting MonitoringMode = 2
)

// TimestampsToReturn enumerates the timestamps returned with a value.
type TimestampsToReturn int32

// TimestampsToReturns
const (
	TimestampsToReturnSource  TimestampsToReturn = 0
	TimestampsToReturnServer  TimestampsToReturn = 1
	TimestampsToReturnBoth    TimestampsToReturn = 2
	TimestampsToReturnNeither TimestampsToReturn = 3
)

// AttributeIDValue identifies the Value attribute of a Node.
const AttributeIDValue uint32 = 13

// ReadValueID identifies an attribute of a Node.
type ReadValueID struct {
	NodeID       NodeID
	AttributeID  uint32
	IndexRange   string
	DataEncoding QualifiedName
}

// MonitoringParameters are the requested parameters of a monitored item.
type MonitoringParameters struct {
	ClientHandle     uint32
	SamplingInterval float64
	Filter           *ExtensionObject
	QueueSize        uint32
	DiscardOldest    bool
}

// MonitoredItemCreateRequest describes a monitored item to create.
type MonitoredItemCreateRequest struct {
	ItemToMonitor       ReadValueID
	MonitoringMode      MonitoringMode
	RequestedParameters MonitoringParameters
}

// MonitoredItemCreateResult is the result of creating a monitored item.
type MonitoredItemCreateResult struct {
	StatusCode              StatusCode
	MonitoredItemID         uint32
	RevisedSamplingInterval float64
	RevisedQueueSize        uint32
	FilterResult            *ExtensionObject
}

// MonitoredItemModifyRequest describes a change to a monitored item.
type MonitoredItemModifyRequest struct {
	MonitoredItemID     uint32
	RequestedParameters MonitoringParameters
}

// MonitoredItemModifyResult is the result of modifying a monitored item.
type MonitoredItemModifyResult struct {
	StatusCode              StatusCode
	RevisedSamplingInterval float64
	RevisedQueueSize        uint32
	FilterResult            *ExtensionObject
}

// CreateMonitoredItemsRequest creates monitored items in a subscription.
type CreateMonitoredItemsRequest struct {
	RequestHeader      RequestHeader
	SubscriptionID     uint32
	TimestampsToReturn TimestampsToReturn
	ItemsToCreate      []MonitoredItemCreateRequest
}

// CreateMonitoredItemsResponse returns one result per item, in request order.
type CreateMonitoredItemsResponse struct {
	ResponseHeader  ResponseHeader
	Results         []MonitoredItemCreateResult
	DiagnosticInfos []*DiagnosticInfo
}

// ModifyMonitoredItemsRequest modifies monitored items of a subscription.
type ModifyMonitoredItemsRequest struct {
	RequestHeader      RequestHeader
	SubscriptionID     uint32
	TimestampsToReturn TimestampsToReturn
	ItemsToModify      []MonitoredItemModifyRequest
}

// ModifyMonitoredItemsResponse returns one result per item, in request order.
type ModifyMonitoredItemsResponse struct {
	ResponseHeader  ResponseHeader
	Results         []MonitoredItemModifyResult
	DiagnosticInfos []*DiagnosticInfo
}

// DeleteMonitoredItemsRequest deletes monitored items of a subscription.
type DeleteMonitoredItemsRequest struct {
	RequestHeader    RequestHeader
	SubscriptionID   uint32
	MonitoredItemIDs []uint32
}

// DeleteMonitoredItemsResponse returns one result per item, in request order.
type DeleteMonitoredItemsResponse struct {
	ResponseHeader  ResponseHeader
	Results         []StatusCode
	DiagnosticInfos []*DiagnosticInfo
}

// CreateSubscriptionRequest creates a subscription.
type CreateSubscriptionRequest struct {
	RequestHeader               RequestHeader
	RequestedPublishingInterval float64
	RequestedLifetimeCount      uint32
	RequestedMaxKeepAliveCount  uint32
	MaxNotificationsPerPublish  uint32
	PublishingEnabled           bool
	Priority                    byte
}

// CreateSubscriptionResponse returns the server-assigned id and the revised parameters.
type CreateSubscriptionResponse struct {
	ResponseHeader            ResponseHeader
	SubscriptionID            uint32
	RevisedPublishingInterval float64
	RevisedLifetimeCount      uint32
	RevisedMaxKeepAliveCount  uint32
}

// ModifySubscriptionRequest modifies a subscription.
type ModifySubscriptionRequest struct {
	RequestHeader               RequestHeader
	SubscriptionID              uint32
	RequestedPublishingInterval float64
	RequestedLifetimeCount      uint32
	RequestedMaxKeepAliveCount  uint32
	MaxNotificationsPerPublish  uint32
	Priority                    byte
}

// ModifySubscriptionResponse returns the revised parameters.
type ModifySubscriptionResponse struct {
	ResponseHeader            ResponseHeader
	RevisedPublishingInterval float64
	RevisedLifetimeCount      uint32
	RevisedMaxKeepAliveCount  uint32
}

// SetPublishingModeRequest enables or disables publishing of subscriptions.
type SetPublishingModeRequest struct {
	RequestHeader     RequestHeader
	PublishingEnabled bool
	SubscriptionIDs   []uint32
}

// SetPublishingModeResponse returns one result per subscription.
type SetPublishingModeResponse struct {
	ResponseHeader  ResponseHeader
	Results         []StatusCode
	DiagnosticInfos []*DiagnosticInfo
}

// SubscriptionAcknowledgement acknowledges a notification message.
type SubscriptionAcknowledgement struct {
	SubscriptionID uint32
	SequenceNumber uint32
}

// PublishRequest asks the server for the next notification message, acknowledging earlier ones.
type PublishRequest struct {
	RequestHeader                RequestHeader
	SubscriptionAcknowledgements []SubscriptionAcknowledgement
}

// NotificationMessage carries the notifications of one publishing cycle.
// A message without NotificationData is a keep-alive.
type NotificationMessage struct {
	SequenceNumber   uint32
	PublishTime      time.Time
	NotificationData []*ExtensionObject
}

// PublishResponse returns a notification message. Results hold one code per acknowledgement
// of the request, in request order.
type PublishResponse struct {
	ResponseHeader           ResponseHeader
	SubscriptionID           uint32
	AvailableSequenceNumbers []uint32
	MoreNotifications        bool
	NotificationMessage      NotificationMessage
	Results                  []StatusCode
	DiagnosticInfos          []*DiagnosticInfo
}

// RepublishRequest asks the server to resend a notification message.
type RepublishRequest struct {
	RequestHeader            RequestHeader
	SubscriptionID           uint32
	RetransmitSequenceNumber uint32
}

// RepublishResponse returns the resent notification message.
type RepublishResponse struct {
	ResponseHeader      ResponseHeader
	NotificationMessage NotificationMessage
}

// DeleteSubscriptionsRequest deletes subscriptions.
type DeleteSubscriptionsRequest struct {
	RequestHeader   RequestHeader
	SubscriptionIDs []uint32
}

// DeleteSubscriptionsResponse returns one result per subscription.
type DeleteSubscriptionsResponse struct {
	ResponseHeader  ResponseHeader
	Results         []StatusCode
	DiagnosticInfos []*DiagnosticInfo
}

// MonitoredItemNotification carries a sample of a monitored item.
type MonitoredItemNotification struct {
	ClientHandle uint32
	Value        *DataValue
}

// DataChangeNotification carries samples of monitored items.
type DataChangeNotification struct {
	MonitoredItems  []MonitoredItemNotification
	DiagnosticInfos []*DiagnosticInfo
}

// StatusChangeNotification reports a change of the status of the subscription.
type StatusChangeNotification struct {
	Status         StatusCode
	DiagnosticInfo *DiagnosticInfo
}

// EventFieldList carries the fields of an event.
type EventFieldList struct {
	ClientHandle uint32
	EventFields  []*Variant
}

// EventNotificationList carries events of monitored items.
type EventNotificationList struct {
	Events []EventFieldList
}

// Header returns the response header.
func (r *ServiceFault) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *CreateMonitoredItemsRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *CreateMonitoredItemsResponse) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *ModifyMonitoredItemsRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *ModifyMonitoredItemsResponse) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *DeleteMonitoredItemsRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *DeleteMonitoredItemsResponse) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *CreateSubscriptionRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *CreateSubscriptionResponse) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *ModifySubscriptionRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *ModifySubscriptionResponse) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *SetPublishingModeRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *SetPublishingModeResponse) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *PublishRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *PublishResponse) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *RepublishRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *RepublishResponse) Header() *ResponseHeader { return &r.ResponseHeader }

// Header returns the request header.
func (r *DeleteSubscriptionsRequest) Header() *RequestHeader { return &r.RequestHeader }

// Header returns the response header.
func (r *DeleteSubscriptionsResponse) Header() *ResponseHeader { return &r.ResponseHeader }
