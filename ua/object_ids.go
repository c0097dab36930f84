// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// Binary encoding ids of the subscription services and their notifications.
var (
	ObjectIDServiceFaultEncodingDefaultBinary                 = NewNodeIDNumeric(0, 397)
	ObjectIDCreateMonitoredItemsRequestEncodingDefaultBinary  = NewNodeIDNumeric(0, 751)
	ObjectIDCreateMonitoredItemsResponseEncodingDefaultBinary = NewNodeIDNumeric(0, 754)
	ObjectIDModifyMonitoredItemsRequestEncodingDefaultBinary  = NewNodeIDNumeric(0, 763)
	ObjectIDModifyMonitoredItemsResponseEncodingDefaultBinary = NewNodeIDNumeric(0, 766)
	ObjectIDDeleteMonitoredItemsRequestEncodingDefaultBinary  = NewNodeIDNumeric(0, 781)
	ObjectIDDeleteMonitoredItemsResponseEncodingDefaultBinary = NewNodeIDNumeric(0, 784)
	ObjectIDCreateSubscriptionRequestEncodingDefaultBinary    = NewNodeIDNumeric(0, 787)
	ObjectIDCreateSubscriptionResponseEncodingDefaultBinary   = NewNodeIDNumeric(0, 790)
	ObjectIDModifySubscriptionRequestEncodingDefaultBinary    = NewNodeIDNumeric(0, 793)
	ObjectIDModifySubscriptionResponseEncodingDefaultBinary   = NewNodeIDNumeric(0, 796)
	ObjectIDSetPublishingModeRequestEncodingDefaultBinary     = NewNodeIDNumeric(0, 799)
	ObjectIDSetPublishingModeResponseEncodingDefaultBinary    = NewNodeIDNumeric(0, 802)
	ObjectIDDataChangeNotificationEncodingDefaultBinary       = NewNodeIDNumeric(0, 811)
	ObjectIDStatusChangeNotificationEncodingDefaultBinary     = NewNodeIDNumeric(0, 820)
	ObjectIDPublishRequestEncodingDefaultBinary               = NewNodeIDNumeric(0, 826)
	ObjectIDPublishResponseEncodingDefaultBinary              = NewNodeIDNumeric(0, 829)
	ObjectIDRepublishRequestEncodingDefaultBinary             = NewNodeIDNumeric(0, 832)
	ObjectIDRepublishResponseEncodingDefaultBinary            = NewNodeIDNumeric(0, 835)
	ObjectIDDeleteSubscriptionsRequestEncodingDefaultBinary   = NewNodeIDNumeric(0, 847)
	ObjectIDDeleteSubscriptionsResponseEncodingDefaultBinary  = NewNodeIDNumeric(0, 850)
	ObjectIDEventNotificationListEncodingDefaultBinary        = NewNodeIDNumeric(0, 916)
)

// RegisterSubscriptionTypes registers the service messages of the subscription and
// monitored item services, and their notification payloads. Registering twice is harmless.
func RegisterSubscriptionTypes(reg *TypeRegistry) {
	RegisterStructure[ServiceFault](reg, ObjectIDServiceFaultEncodingDefaultBinary)
	RegisterStructure[CreateMonitoredItemsRequest](reg, ObjectIDCreateMonitoredItemsRequestEncodingDefaultBinary)
	RegisterStructure[CreateMonitoredItemsResponse](reg, ObjectIDCreateMonitoredItemsResponseEncodingDefaultBinary)
	RegisterStructure[ModifyMonitoredItemsRequest](reg, ObjectIDModifyMonitoredItemsRequestEncodingDefaultBinary)
	RegisterStructure[ModifyMonitoredItemsResponse](reg, ObjectIDModifyMonitoredItemsResponseEncodingDefaultBinary)
	RegisterStructure[DeleteMonitoredItemsRequest](reg, ObjectIDDeleteMonitoredItemsRequestEncodingDefaultBinary)
	RegisterStructure[DeleteMonitoredItemsResponse](reg, ObjectIDDeleteMonitoredItemsResponseEncodingDefaultBinary)
	RegisterStructure[CreateSubscriptionRequest](reg, ObjectIDCreateSubscriptionRequestEncodingDefaultBinary)
	RegisterStructure[CreateSubscriptionResponse](reg, ObjectIDCreateSubscriptionResponseEncodingDefaultBinary)
	RegisterStructure[ModifySubscriptionRequest](reg, ObjectIDModifySubscriptionRequestEncodingDefaultBinary)
	RegisterStructure[ModifySubscriptionResponse](reg, ObjectIDModifySubscriptionResponseEncodingDefaultBinary)
	RegisterStructure[SetPublishingModeRequest](reg, ObjectIDSetPublishingModeRequestEncodingDefaultBinary)
	RegisterStructure[SetPublishingModeResponse](reg, ObjectIDSetPublishingModeResponseEncodingDefaultBinary)
	RegisterStructure[PublishRequest](reg, ObjectIDPublishRequestEncodingDefaultBinary)
	RegisterStructure[PublishResponse](reg, ObjectIDPublishResponseEncodingDefaultBinary)
	RegisterStructure[RepublishRequest](reg, ObjectIDRepublishRequestEncodingDefaultBinary)
	RegisterStructure[RepublishResponse](reg, ObjectIDRepublishResponseEncodingDefaultBinary)
	RegisterStructure[DeleteSubscriptionsRequest](reg, ObjectIDDeleteSubscriptionsRequestEncodingDefaultBinary)
	RegisterStructure[DeleteSubscriptionsResponse](reg, ObjectIDDeleteSubscriptionsResponseEncodingDefaultBinary)
	RegisterStructure[DataChangeNotification](reg, ObjectIDDataChangeNotificationEncodingDefaultBinary)
	RegisterStructure[StatusChangeNotification](reg, ObjectIDStatusChangeNotificationEncodingDefaultBinary)
	RegisterStructure[EventNotificationList](reg, ObjectIDEventNotificationListEncodingDefaultBinary)
}
