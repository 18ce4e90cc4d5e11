package tests

import (
	"context"
	"testing"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

func TestBookingNotificationsPersisted(t *testing.T) {
	ctx := context.Background()
	notificationRepo := NewMockNotificationRepository()
	notifier := service.NewNotificationService(notificationRepo)

	booking := pendingCarsharingBooking("b-1", "user-1", "v-1")
	notifier.NotifyBookingCreated(ctx, booking)
	notifier.NotifyBookingCanceled(ctx, booking)

	notifications, err := notificationRepo.ListByUser(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}

	// Newest first.
	if notifications[0].Title.Resolve("en") != "Booking canceled" {
		t.Errorf("unexpected newest title %q", notifications[0].Title.Resolve("en"))
	}
	for _, n := range notifications {
		if n.Type != domain.NotificationTypeBooking {
			t.Errorf("expected booking type, got %s", n.Type)
		}
		if n.RelatedID != "b-1" {
			t.Errorf("expected related id b-1, got %s", n.RelatedID)
		}
		if n.IsRead {
			t.Error("expected unread notification")
		}
	}
}

func TestMarkNotificationReadScopedToUser(t *testing.T) {
	ctx := context.Background()
	notificationRepo := NewMockNotificationRepository()
	notifier := service.NewNotificationService(notificationRepo)

	notifier.NotifyBookingCreated(ctx, pendingCarsharingBooking("b-1", "user-1", "v-1"))

	notifications, _ := notificationRepo.ListByUser(ctx, "user-1", 1)
	if len(notifications) != 1 {
		t.Fatal("expected one notification")
	}
	id := notifications[0].ID

	// Another user cannot mark it read.
	if err := notificationRepo.MarkRead(ctx, id, "user-2"); err == nil {
		t.Error("expected error marking another user's notification")
	}

	if err := notificationRepo.MarkRead(ctx, id, "user-1"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	notifications, _ = notificationRepo.ListByUser(ctx, "user-1", 1)
	if !notifications[0].IsRead {
		t.Error("expected notification marked read")
	}
}
