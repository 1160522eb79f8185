package authz

import (
	"fmt"

	"github.com/corposign/corposign/internal/constants"
)

// RoleSeed definición de un rol integrado
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds matriz de roles del negocio: el administrador lo
// puede todo, el vendedor opera ventas y clientes, el diseñador avanza
// órdenes y corpóreos. Todos pueden leer.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RolAdministrador,
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
		{
			Role: constants.RolVendedor,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/admin/clientes", Action: "*"},
				{Object: "/admin/clientes/:id", Action: "*"},
				{Object: "/admin/ventas", Action: "POST"},
				{Object: "/admin/ventas/numero", Action: "GET"},
				{Object: "/admin/ordenes/:id/estado", Action: "PATCH"},
				{Object: "/admin/tasa", Action: "GET"},
			},
		},
		{
			Role: constants.RolDisenador,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/admin/ordenes/:id/estado", Action: "PATCH"},
				{Object: "/admin/ordenes/:id/detalles", Action: "PUT"},
				{Object: "/admin/ventas/:id/corporeo", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles crea los roles integrados y sus políticas por
// defecto; es idempotente
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
