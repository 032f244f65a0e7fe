// Package repository holds the typed collections every module works through.
package repository

import "homeclean/internal/docstore"

type Repositories struct {
	Users         *UserRepository
	Houses        *HouseRepository
	Cleaners      *CleanerRepository
	Bookings      *BookingRepository
	Notifications *NotificationRepository
	Chats         *ChatRepository
	Reviews       *ReviewRepository
	Transactions  *TransactionRepository
	Promos        *PromoRepository
	Settings      *SettingsRepository
}

func New(store *docstore.Store) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(store),
		Houses:        NewHouseRepository(store),
		Cleaners:      NewCleanerRepository(store),
		Bookings:      NewBookingRepository(store),
		Notifications: NewNotificationRepository(store),
		Chats:         NewChatRepository(store),
		Reviews:       NewReviewRepository(store),
		Transactions:  NewTransactionRepository(store),
		Promos:        NewPromoRepository(store),
		Settings:      NewSettingsRepository(store),
	}
}
