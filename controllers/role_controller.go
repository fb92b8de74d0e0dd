package controllers

import (
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"

	"github.com/gin-gonic/gin"
)

type roleResponse struct {
	Role       models.Role `json:"role"`
	Operations []string    `json:"operations"`
}

// ListRoles reports, per role, which gated operations it may perform.
func ListRoles(c *gin.Context) {
	roles := []models.Role{
		models.RoleOwner, models.RoleManager, models.RoleReceptionist,
		models.RoleStorekeeper, models.RoleHousekeeper, models.RoleGuest,
	}
	reqs := services.Requirements()

	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		entry := roleResponse{Role: role, Operations: []string{}}
		caller := &models.Caller{Role: role}
		for _, r := range reqs {
			if models.HasRole(caller, r.Roles) {
				entry.Operations = append(entry.Operations, r.Operation)
			}
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}

func ListRequirements(c *gin.Context) {
	c.JSON(http.StatusOK, services.Requirements())
}
