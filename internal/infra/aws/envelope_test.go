package aws

import "testing"

func TestUnwrapNotification(t *testing.T) {
	t.Parallel()

	t.Run("sns delivery envelope", func(t *testing.T) {
		body := []byte(`{"Type":"Notification","MessageId":"abc","Message":"{\"job_id\":\"J1\"}"}`)
		got := unwrapNotification(body)
		if string(got) != `{"job_id":"J1"}` {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("bare payload passes through", func(t *testing.T) {
		body := []byte(`{"job_id":"J1"}`)
		if got := unwrapNotification(body); string(got) != string(body) {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("non-json passes through", func(t *testing.T) {
		body := []byte("not json at all")
		if got := unwrapNotification(body); string(got) != string(body) {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("wrong type passes through", func(t *testing.T) {
		body := []byte(`{"Type":"SubscriptionConfirmation","Message":"x"}`)
		if got := unwrapNotification(body); string(got) != string(body) {
			t.Fatalf("got %q", got)
		}
	})
}
