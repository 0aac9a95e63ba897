package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubscriptionUpsertOmitsID(t *testing.T) {
	t.Parallel()

	// Built exactly as SubscribePush builds its $set document.
	pushSub := PushSubscription{
		UserID: primitive.NewObjectID(),
		Sub: webpush.Subscription{
			Endpoint: "https://push.example/ep",
			Keys:     webpush.Keys{P256dh: "p", Auth: "a"},
		},
	}

	raw, err := bson.Marshal(pushSub)
	if err != nil {
		t.Fatalf("marshal subscription: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal subscription: %v", err)
	}

	if _, ok := doc["_id"]; ok {
		t.Fatal("$set document must not carry _id: re-subscribing would hit Mongo's immutable-field rejection")
	}
	if _, ok := doc["userId"]; !ok {
		t.Fatal("$set document must keep userId")
	}
	if _, ok := doc["sub"]; !ok {
		t.Fatal("$set document must keep the subscription")
	}
}

func TestTruncatePreview(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short untouched", in: "hello", max: 100, want: "hello"},
		{name: "exact length untouched", in: "hello", max: 5, want: "hello"},
		{name: "ascii truncated", in: "hello world", max: 5, want: "hello..."},
		{name: "multibyte kept whole", in: "héllo wörld", max: 7, want: "héllo w..."},
		{name: "emoji not split", in: strings.Repeat("👋", 10), max: 3, want: "👋👋👋..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncatePreview(tc.in, tc.max)
			if got != tc.want {
				t.Fatalf("truncatePreview(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncatePreview produced invalid UTF-8: %q", got)
			}
		})
	}
}
