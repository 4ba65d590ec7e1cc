package chat

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Owner identifies who a chat belongs to. The zero value is anonymous,
// which is the normal state in the auth-free deployment. It serializes as
// null (anonymous) or the user id string, so documents written by an
// authenticated deployment stay readable by an anonymous one.
type Owner struct {
	userID string
}

// AnonymousOwner returns the owner used when no identity is attached.
func AnonymousOwner() Owner {
	return Owner{}
}

// UserOwner binds a chat to the given user id.
func UserOwner(id string) Owner {
	return Owner{userID: id}
}

// UserID returns the owning user id and whether one is set.
func (o Owner) UserID() (string, bool) {
	return o.userID, o.userID != ""
}

// IsAnonymous reports whether no user is bound.
func (o Owner) IsAnonymous() bool {
	return o.userID == ""
}

func (o Owner) MarshalJSON() ([]byte, error) {
	if o.userID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(o.userID)
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Owner{}
		return nil
	}
	return json.Unmarshal(data, &o.userID)
}

func (o Owner) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if o.userID == "" {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(o.userID)
}

func (o *Owner) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null {
		*o = Owner{}
		return nil
	}
	raw := bson.RawValue{Type: t, Value: data}
	return raw.Unmarshal(&o.userID)
}
