package services

import "hotel-pms/models"

// Role sets required by the mutating operations. Enforcement happens in the HTTP layer.
var (
	ReceiveGoodsRoles   = []models.Role{models.RoleOwner, models.RoleManager, models.RoleStorekeeper}
	StockAdminRoles     = []models.Role{models.RoleOwner, models.RoleManager, models.RoleStorekeeper}
	CatalogueAdminRoles = []models.Role{models.RoleOwner, models.RoleManager}
	RoomAdminRoles      = []models.Role{models.RoleOwner, models.RoleManager}
	RoomStatusRoles     = []models.Role{models.RoleOwner, models.RoleManager, models.RoleReceptionist, models.RoleHousekeeper}
	PricingAdminRoles   = []models.Role{models.RoleOwner, models.RoleManager}
	FrontDeskRoles      = []models.Role{models.RoleOwner, models.RoleManager, models.RoleReceptionist}
	UserAdminRoles      = []models.Role{models.RoleOwner, models.RoleManager}
	// StaffRoles covers every read-only back-office view.
	StaffRoles = []models.Role{
		models.RoleOwner, models.RoleManager, models.RoleReceptionist, models.RoleStorekeeper, models.RoleHousekeeper,
	}
)

// Requirement names a gated operation and the roles allowed to perform it.
type Requirement struct {
	Operation string        `json:"operation"`
	Roles     []models.Role `json:"roles"`
}

// Requirements lists the role metadata of every gated operation.
func Requirements() []Requirement {
	return []Requirement{
		{Operation: "inventory.receive_goods", Roles: ReceiveGoodsRoles},
		{Operation: "inventory.add_stock", Roles: StockAdminRoles},
		{Operation: "inventory.remove_stock", Roles: StockAdminRoles},
		{Operation: "inventory.transfer_stock", Roles: StockAdminRoles},
		{Operation: "inventory.create_item", Roles: CatalogueAdminRoles},
		{Operation: "rooms.manage", Roles: RoomAdminRoles},
		{Operation: "rooms.update_status", Roles: RoomStatusRoles},
		{Operation: "pricing.manage", Roles: PricingAdminRoles},
		{Operation: "reservations.manage", Roles: FrontDeskRoles},
		{Operation: "folio.post", Roles: FrontDeskRoles},
		{Operation: "users.manage", Roles: UserAdminRoles},
	}
}
