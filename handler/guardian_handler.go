package handler

import (
	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GuardianHandler serves the owning user's guardian roster. All routes
// sit behind the user auth middleware; edits bounce with 409 once an
// activation has left inactive.
type GuardianHandler struct {
	manager *usecase.GuardianManager
}

func NewGuardianHandler(manager *usecase.GuardianManager) *GuardianHandler {
	return &GuardianHandler{manager: manager}
}

func (h *GuardianHandler) CreateGuardian(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req dto.CreateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	guardian := guardianFromRequest(userID.(string), req.Name, req.Email, req.Phone, req.Relationship, req.CanTriggerEmergency, req.Priority, req.Permissions)

	if err := h.manager.Create(c.Request.Context(), guardian); err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, guardian)
}

func (h *GuardianHandler) ListGuardians(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	guardians, err := h.manager.List(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, guardians)
}

func (h *GuardianHandler) UpdateGuardian(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	guardianID := c.Param("id")
	if guardianID == "" {
		utils.BadRequest(c, "Missing guardian ID")
		return
	}

	var req dto.UpdateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	guardian := guardianFromRequest(userID.(string), req.Name, req.Email, req.Phone, req.Relationship, req.CanTriggerEmergency, req.Priority, req.Permissions)
	guardian.ID = guardianID

	if err := h.manager.Update(c.Request.Context(), guardian); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, guardian)
}

func (h *GuardianHandler) DeleteGuardian(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	guardianID := c.Param("id")
	if guardianID == "" {
		utils.BadRequest(c, "Missing guardian ID")
		return
	}

	if err := h.manager.Delete(c.Request.Context(), userID.(string), guardianID); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Guardian removed successfully"})
}

func guardianFromRequest(userID, name, email, phone, relationship string, canTrigger bool, priority int, perms dto.GuardianPermissionsRequest) *model.Guardian {
	return &model.Guardian{
		UserID:              userID,
		Name:                name,
		Email:               email,
		Phone:               phone,
		Relationship:        relationship,
		CanTriggerEmergency: canTrigger,
		Priority:            priority,
		Permissions: model.GuardianPermissions{
			CanAccessHealthDocs:    perms.CanAccessHealthDocs,
			CanAccessFinancialDocs: perms.CanAccessFinancialDocs,
			IsChildGuardian:        perms.IsChildGuardian,
			IsWillExecutor:         perms.IsWillExecutor,
		},
	}
}
