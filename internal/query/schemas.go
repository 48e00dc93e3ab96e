package query

// Logical field names shared by the schemas and the store implementations
const (
	FieldFromLocation = "fromLocation"
	FieldToLocation   = "toLocation"
	FieldStartDate    = "startDate"
	FieldEndDate      = "endDate"
	FieldBasePrice    = "basePrice"
	FieldCreatedAt    = "createdAt"

	FieldStatus      = "status"
	FieldBookingDate = "bookingDate"
	FieldTotalPrice  = "totalPrice"
	FieldUser        = "user"
	FieldPackage     = "package"

	FieldName  = "name"
	FieldEmail = "email"
	FieldRole  = "role"
)

// Packages is the public package listing
var Packages = Schema{
	Filters: []Filter{
		{Param: "fromLocation", Field: FieldFromLocation, Op: OpContains},
		{Param: "toLocation", Field: FieldToLocation, Op: OpContains},
		{Param: "startDate", Field: FieldStartDate, Op: OpGTE, Kind: KindDate},
		{Param: "endDate", Field: FieldEndDate, Op: OpLTE, Kind: KindDate},
	},
	Sorts:        []string{FieldBasePrice, FieldStartDate, FieldEndDate, FieldCreatedAt},
	DefaultSort:  Sort{Field: FieldCreatedAt, Desc: true},
	DefaultLimit: 10,
}

// Bookings is the admin booking listing
var Bookings = Schema{
	Filters: []Filter{
		{Param: "status", Field: FieldStatus, Op: OpEq, Allowed: []string{"accepted", "cancelled", "completed"}},
	},
	Sorts:        []string{FieldBookingDate, FieldTotalPrice},
	DefaultSort:  Sort{Field: FieldBookingDate, Desc: true},
	DefaultLimit: 10,
}

// Users is the admin user listing
var Users = Schema{
	Filters: []Filter{
		{Param: "name", Field: FieldName, Op: OpContains},
		{Param: "email", Field: FieldEmail, Op: OpContains},
		{Param: "role", Field: FieldRole, Op: OpEq, Allowed: []string{"user", "admin"}},
	},
	Sorts:        []string{FieldName, FieldEmail, FieldCreatedAt},
	DefaultSort:  Sort{Field: FieldCreatedAt, Desc: true},
	DefaultLimit: 10,
}
