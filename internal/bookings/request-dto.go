package bookings

// ReserveRequest represents a reservation request for specific units
type ReserveRequest struct {
	Units []string `json:"units" binding:"required,min=1,max=10,dive,required,min=1,max=64"`
}

// BookingListQuery represents pagination for booking listings
type BookingListQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}
