package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/corposign/corposign/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUsuarioConRol(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("taller", "/admin/ordenes/:id/estado", "PATCH"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.AsignarRol("jose", "taller"); err != nil {
		t.Fatalf("asignar rol failed: %v", err)
	}

	allow, err := svc.EnforceUsuario("jose", "/api/v1/admin/ordenes/42/estado", "patch")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceUsuario("jose", "/api/v1/admin/ordenes/42/estado", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestAsignarRolReemplazaElAnterior(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("taller", "/admin/ordenes", "GET"); err != nil {
		t.Fatalf("grant taller policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("caja", "/admin/cuentas", "GET"); err != nil {
		t.Fatalf("grant caja policy failed: %v", err)
	}

	if err := svc.AsignarRol("ana", "taller"); err != nil {
		t.Fatalf("asignar primer rol failed: %v", err)
	}
	roles, err := svc.RolesDeUsuario("ana")
	if err != nil {
		t.Fatalf("roles de usuario failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:taller" {
		t.Fatalf("roles want [role:taller] got %v", roles)
	}

	if err := svc.AsignarRol("ana", "caja"); err != nil {
		t.Fatalf("asignar segundo rol failed: %v", err)
	}
	roles, err = svc.RolesDeUsuario("ana")
	if err != nil {
		t.Fatalf("roles de usuario failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:caja" {
		t.Fatalf("roles want [role:caja] got %v", roles)
	}

	allow, err := svc.EnforceUsuario("ana", "/admin/ordenes", "GET")
	if err != nil {
		t.Fatalf("enforce rol viejo failed: %v", err)
	}
	if allow {
		t.Fatalf("expected permiso del rol anterior retirado")
	}
	allow, err = svc.EnforceUsuario("ana", "/admin/cuentas", "GET")
	if err != nil {
		t.Fatalf("enforce rol nuevo failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected permiso del rol nuevo")
	}
}

func TestQuitarRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("taller", "/admin/ordenes", "GET"); err != nil {
		t.Fatalf("grant policy failed: %v", err)
	}
	if err := svc.AsignarRol("ana", "taller"); err != nil {
		t.Fatalf("asignar rol failed: %v", err)
	}
	if err := svc.QuitarRoles("ana"); err != nil {
		t.Fatalf("quitar roles failed: %v", err)
	}

	roles, err := svc.RolesDeUsuario("ana")
	if err != nil {
		t.Fatalf("roles de usuario failed: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("roles want [] got %v", roles)
	}
	allow, err := svc.EnforceUsuario("ana", "/admin/ordenes", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false sin roles")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/ventas/:id", want: "/admin/ventas/:id"},
		{in: "/admin/ventas/:id", want: "/admin/ventas/:id"},
		{in: "admin/ventas", want: "/admin/ventas"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:administrador": true,
		"role:vendedor":      true,
		"role:disenador":     true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}
}

func TestBuiltinVendedorPermisos(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.AsignarRol("carla", constants.RolVendedor); err != nil {
		t.Fatalf("asignar rol failed: %v", err)
	}

	casos := []struct {
		obj   string
		act   string
		allow bool
	}{
		{obj: "/admin/ventas", act: "GET", allow: true},
		{obj: "/admin/ventas", act: "POST", allow: true},
		{obj: "/admin/clientes/7", act: "PUT", allow: true},
		{obj: "/admin/ordenes/7/estado", act: "PATCH", allow: true},
		{obj: "/admin/productos", act: "POST", allow: false},
		{obj: "/admin/usuarios", act: "POST", allow: false},
		{obj: "/admin/tablas/3", act: "DELETE", allow: false},
	}
	for _, caso := range casos {
		allow, err := svc.EnforceUsuario("carla", caso.obj, caso.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", caso.act, caso.obj, err)
		}
		if allow != caso.allow {
			t.Fatalf("%s %s want allow=%v got %v", caso.act, caso.obj, caso.allow, allow)
		}
	}
}

func TestBuiltinAdministradorTodoPermitido(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.AsignarRol("root", constants.RolAdministrador); err != nil {
		t.Fatalf("asignar rol failed: %v", err)
	}

	for _, caso := range []struct{ obj, act string }{
		{obj: "/admin/usuarios", act: "POST"},
		{obj: "/admin/tablas/9", act: "DELETE"},
		{obj: "/admin/reportes/diario", act: "GET"},
	} {
		allow, err := svc.EnforceUsuario("root", caso.obj, caso.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", caso.act, caso.obj, err)
		}
		if !allow {
			t.Fatalf("administrador want allow en %s %s", caso.act, caso.obj)
		}
	}
}
