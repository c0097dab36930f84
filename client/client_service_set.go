// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"context"

	"github.com/awcullen/uastream/ua"
)

// request sends the request and checks the response has the expected type and a good service result.
func request[T ua.ServiceResponse](ctx context.Context, ch Channel, req ua.ServiceRequest) (T, error) {
	var zero T
	response, err := ch.Request(ctx, req)
	if err != nil {
		return zero, err
	}
	if fault, ok := response.(*ua.ServiceFault); ok {
		if sr := fault.ResponseHeader.ServiceResult; sr != ua.Good {
			return zero, sr
		}
		return zero, ua.BadUnexpectedError
	}
	res, ok := response.(T)
	if !ok {
		return zero, ua.BadUnexpectedError
	}
	if sr := res.Header().ServiceResult; sr.IsBad() {
		return zero, sr
	}
	return res, nil
}

// createSubscription creates a Subscription.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.13.2/
func createSubscription(ctx context.Context, ch Channel, req *ua.CreateSubscriptionRequest) (*ua.CreateSubscriptionResponse, error) {
	return request[*ua.CreateSubscriptionResponse](ctx, ch, req)
}

// modifySubscription modifies a Subscription.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.13.3/
func modifySubscription(ctx context.Context, ch Channel, req *ua.ModifySubscriptionRequest) (*ua.ModifySubscriptionResponse, error) {
	return request[*ua.ModifySubscriptionResponse](ctx, ch, req)
}

// setPublishingMode enables sending of Notifications on one or more Subscriptions.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.13.4/
func setPublishingMode(ctx context.Context, ch Channel, req *ua.SetPublishingModeRequest) (*ua.SetPublishingModeResponse, error) {
	return request[*ua.SetPublishingModeResponse](ctx, ch, req)
}

// publish requests the Server to return a NotificationMessage and acknowledges earlier ones.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.13.5/
func publish(ctx context.Context, ch Channel, req *ua.PublishRequest) (*ua.PublishResponse, error) {
	return request[*ua.PublishResponse](ctx, ch, req)
}

// deleteSubscriptions deletes one or more Subscriptions.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.13.8/
func deleteSubscriptions(ctx context.Context, ch Channel, req *ua.DeleteSubscriptionsRequest) (*ua.DeleteSubscriptionsResponse, error) {
	return request[*ua.DeleteSubscriptionsResponse](ctx, ch, req)
}

// createMonitoredItems creates and adds one or more MonitoredItems to a Subscription.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.12.2/
func createMonitoredItems(ctx context.Context, ch Channel, req *ua.CreateMonitoredItemsRequest) (*ua.CreateMonitoredItemsResponse, error) {
	return request[*ua.CreateMonitoredItemsResponse](ctx, ch, req)
}

// modifyMonitoredItems modifies MonitoredItems of a Subscription.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.12.3/
func modifyMonitoredItems(ctx context.Context, ch Channel, req *ua.ModifyMonitoredItemsRequest) (*ua.ModifyMonitoredItemsResponse, error) {
	return request[*ua.ModifyMonitoredItemsResponse](ctx, ch, req)
}

// deleteMonitoredItems removes one or more MonitoredItems of a Subscription.
// See https://reference.opcfoundation.org/v104/Core/docs/Part4/5.12.6/
func deleteMonitoredItems(ctx context.Context, ch Channel, req *ua.DeleteMonitoredItemsRequest) (*ua.DeleteMonitoredItemsResponse, error) {
	return request[*ua.DeleteMonitoredItemsResponse](ctx, ch, req)
}
