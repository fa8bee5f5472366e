package repositories

// Models returns every GORM model owned by the service, in migration order
func Models() []interface{} {
	return []interface{}{
		&DBUser{},
		&DBPhoneOTP{},
		&DBCategory{},
		&DBBlog{},
		&DBContentType{},
		&DBComment{},
		&DBAuditEvent{},
	}
}
