package repository

// Models lists every persisted model for AutoMigrate. Keep in dependency
// order so foreign keys resolve.
func Models() []any {
	return []any{
		&userModel{},
		&propertyModel{},
		&bookingModel{},
		&RefreshToken{},
		&EmailVerificationCode{},
	}
}
