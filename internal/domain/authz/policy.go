// Package authz contiene la política de autorización del taller: una única tabla de
// decisión, sin E/S, que usan todos los casos de uso antes de tocar el almacenamiento.
package authz

import (
	"slices"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// Actor identidad autenticada que ejecuta la petición. El valor cero es anónimo.
type Actor struct {
	ID   int64
	Role string
}

// Authenticated informa si el actor proviene de una sesión resuelta.
func (a Actor) Authenticated() bool {
	return a.ID > 0 && entity.ValidRole(a.Role)
}

// IsManager informa si el actor es manager.
func (a Actor) IsManager() bool { return a.Authenticated() && a.Role == entity.RoleManager }

// Resource tipo de recurso sobre el que se decide.
type Resource string

const (
	ResourceJob          Resource = "job"
	ResourceMaterial     Resource = "material"
	ResourceSparePart    Resource = "sparepart"
	ResourceUsageSummary Resource = "usage_summary"
	ResourceEmployee     Resource = "employee"
	ResourceUser         Resource = "user"
)

// Verb operación solicitada.
type Verb string

const (
	VerbList   Verb = "list"
	VerbView   Verb = "view"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Action describe la operación. OwnerID es el dueño del recurso concreto (para Job,
// assigned_to); nil significa sin dueño o irrelevante.
type Action struct {
	Verb     Verb
	Resource Resource
	OwnerID  *int64
}

// Scope alcance de lectura concedido.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeOwn       // solo filas cuyo dueño es el actor
)

// Decision resultado de una autorización concedida.
type Decision struct {
	AllowedFields []string // campos escribibles, ordenados
	Scope         Scope
	ForceOwner    bool // el recurso creado pertenece al actor, ignore lo que diga el payload
}

// Denial autorización denegada. Unwrap devuelve el error de dominio que fija el código HTTP.
type Denial struct {
	Reason  error
	Message string
}

func (d *Denial) Error() string { return d.Message }

func (d *Denial) Unwrap() error { return d.Reason }

func deny(reason error, msg string) error {
	return &Denial{Reason: reason, Message: msg}
}

// Campos escribibles por recurso.
var (
	JobFields         = []string{"assigned_to", "job_title", "progress", "status"}
	EmployeeJobFields = []string{"progress", "status"}
	MaterialFields    = []string{"material_name", "minimum_level", "quantity", "unit"}
)

type rule func(actor Actor, action Action, requested []string) (Decision, error)

// table es la única fuente de verdad de permisos. Lo que no aparece aquí se deniega.
var table = map[Resource]map[Verb]rule{
	ResourceJob: {
		VerbList:   readJobs,
		VerbView:   readJobs,
		VerbCreate: managerOnly("solo un manager puede crear trabajos"),
		VerbUpdate: updateJob,
		VerbDelete: managerOnly("solo un manager puede eliminar trabajos"),
	},
	ResourceMaterial: {
		VerbList:   anyActor,
		VerbView:   anyActor,
		VerbCreate: managerOnly("solo un manager puede crear materiales"),
		VerbUpdate: updateMaterial,
		VerbDelete: managerOnly("solo un manager puede eliminar materiales"),
	},
	ResourceSparePart: {
		VerbList:   anyActor,
		VerbView:   anyActor,
		VerbCreate: recordUsage,
		VerbDelete: managerOnly("solo un manager puede eliminar registros de consumo"),
	},
	ResourceUsageSummary: {
		VerbView: managerOnly("solo un manager puede ver el resumen mensual"),
	},
	ResourceEmployee: {
		VerbList: managerOnly("solo un manager puede listar empleados"),
	},
	ResourceUser: {
		VerbCreate: managerOnly("solo un manager puede crear usuarios con ese rol"),
	},
}

// Authorize decide si actor puede ejecutar action escribiendo los campos requested.
// Devuelve la decisión o un *Denial (401 anónimo, 403 sin privilegio, 400 sin campos válidos).
func Authorize(actor Actor, action Action, requested []string) (Decision, error) {
	if !actor.Authenticated() {
		return Decision{}, deny(domain.ErrUnauthorized, "autenticación requerida")
	}
	r, ok := table[action.Resource][action.Verb]
	if !ok {
		return Decision{}, deny(domain.ErrForbidden, "acción no permitida")
	}
	return r(actor, action, requested)
}

func anyActor(Actor, Action, []string) (Decision, error) {
	return Decision{Scope: ScopeAll}, nil
}

func managerOnly(msg string) rule {
	return func(actor Actor, _ Action, _ []string) (Decision, error) {
		if !actor.IsManager() {
			return Decision{}, deny(domain.ErrForbidden, msg)
		}
		return Decision{Scope: ScopeAll}, nil
	}
}

func readJobs(actor Actor, action Action, _ []string) (Decision, error) {
	if actor.IsManager() {
		return Decision{Scope: ScopeAll}, nil
	}
	if action.Verb == VerbView && !owns(actor, action) {
		return Decision{}, deny(domain.ErrForbidden, "solo puede consultar sus propios trabajos")
	}
	return Decision{Scope: ScopeOwn}, nil
}

func updateJob(actor Actor, action Action, requested []string) (Decision, error) {
	allowed := JobFields
	if !actor.IsManager() {
		if !owns(actor, action) {
			return Decision{}, deny(domain.ErrForbidden, "solo puede actualizar sus propios trabajos")
		}
		allowed = EmployeeJobFields
	}
	return withFields(requested, allowed)
}

func updateMaterial(actor Actor, _ Action, requested []string) (Decision, error) {
	if !actor.IsManager() {
		return Decision{}, deny(domain.ErrForbidden, "solo un manager puede actualizar materiales")
	}
	return withFields(requested, MaterialFields)
}

func recordUsage(Actor, Action, []string) (Decision, error) {
	return Decision{Scope: ScopeAll, ForceOwner: true}, nil
}

func owns(actor Actor, action Action) bool {
	return action.OwnerID != nil && *action.OwnerID == actor.ID
}

func withFields(requested, allowed []string) (Decision, error) {
	fields := intersect(requested, allowed)
	if len(fields) == 0 {
		return Decision{}, deny(domain.ErrNoValidFields, "no hay campos válidos para actualizar")
	}
	return Decision{Scope: ScopeAll, AllowedFields: fields}, nil
}

func intersect(requested, allowed []string) []string {
	out := make([]string, 0, len(requested))
	for _, f := range requested {
		if slices.Contains(allowed, f) && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return out
}
