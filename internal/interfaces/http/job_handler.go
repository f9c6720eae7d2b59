package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/usecase"
)

// JobHandler maneja las peticiones HTTP de trabajos (protegido).
type JobHandler struct {
	uc    *usecase.JobUseCase
	users *usecase.UserUseCase
}

// NewJobHandler construye el handler.
func NewJobHandler(uc *usecase.JobUseCase, users *usecase.UserUseCase) *JobHandler {
	return &JobHandler{uc: uc, users: users}
}

// List godoc
// @Summary      Listar trabajos
// @Description  Un manager ve todos; un employee solo los asignados a él.
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.JobResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener trabajo
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del trabajo"
// @Success      200  {object}  dto.JobResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}
	out, err := h.uc.Get(c.UserContext(), GetActor(c), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear trabajo
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJobRequest  true  "Datos del trabajo"
// @Success      201   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar trabajo
// @Description  Manager: job_title, assigned_to, status, progress. Employee asignado: status, progress.
// @Description  Los demás campos se descartan (o se rechazan con STRICT_FIELD_FILTER).
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int     true  "ID del trabajo"
// @Param        body  body  object  true  "Campos a actualizar"
// @Success      200   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), int64(id), payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar trabajo
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del trabajo"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [delete]
func (h *JobHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}
	if err := h.uc.Delete(c.UserContext(), GetActor(c), int64(id)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "trabajo eliminado"})
}

// Employees godoc
// @Summary      Employees asignables
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.EmployeeResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/jobs/employees [get]
func (h *JobHandler) Employees(c *fiber.Ctx) error {
	out, err := h.users.ListEmployees(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
