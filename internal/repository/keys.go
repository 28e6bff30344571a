// Package repository maps users, events, registrations and waitlist entries
// onto the single events table.
//
//	User          PK=USER#<userId>   SK=METADATA
//	Event         PK=EVENT#<eventId> SK=METADATA
//	Registration  PK=USER#<userId>   SK=REG#<eventId>   GSI1PK=EVENT#<eventId> GSI1SK=REG#<userId>
//	WaitlistEntry PK=EVENT#<eventId> SK=WAIT#<addedAt>#<userId>
package repository

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-event-registration/internal/store"
)

const (
	prefixUser     = "USER#"
	prefixEvent    = "EVENT#"
	prefixReg      = "REG#"
	prefixWait     = "WAIT#"
	sortMetadata   = "METADATA"
	attrEntityType = "entityType"

	// sortableTime is fixed width so lexicographic order equals time order.
	sortableTime = "2006-01-02T15:04:05.000000000Z"
)

// Entity type tags written alongside each record.
const (
	typeUser         = "USER"
	typeEvent        = "EVENT"
	typeRegistration = "REGISTRATION"
	typeWaitlist     = "WAITLIST"
)

func userKey(userID string) store.Key {
	return store.Key{PK: prefixUser + userID, SK: sortMetadata}
}

func eventKey(eventID string) store.Key {
	return store.Key{PK: prefixEvent + eventID, SK: sortMetadata}
}

func registrationKey(userID, eventID string) store.Key {
	return store.Key{PK: prefixUser + userID, SK: prefixReg + eventID}
}

func waitlistKey(eventID, userID string, addedAt time.Time) store.Key {
	return store.Key{
		PK: prefixEvent + eventID,
		SK: prefixWait + addedAt.UTC().Format(sortableTime) + "#" + userID,
	}
}

// marshalRecord encodes v and stamps the key attributes and entity tag on it.
func marshalRecord(v interface{}, entityType string, key store.Key, extra map[string]string) (store.Item, error) {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", entityType, err)
	}
	item[store.AttrPK] = &types.AttributeValueMemberS{Value: key.PK}
	item[store.AttrSK] = &types.AttributeValueMemberS{Value: key.SK}
	item[attrEntityType] = &types.AttributeValueMemberS{Value: entityType}
	for k, v := range extra {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	return item, nil
}

func unmarshalRecords[T any](items []store.Item) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		var v T
		if err := attributevalue.UnmarshalMap(it, &v); err != nil {
			return nil, fmt.Errorf("unmarshal %T: %w", v, err)
		}
		out = append(out, v)
	}
	return out, nil
}
