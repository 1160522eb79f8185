package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type asignadorPrueba struct {
	asignados map[string]string
	quitados  []string
}

func (a *asignadorPrueba) AsignarRol(username, rol string) error {
	if a.asignados == nil {
		a.asignados = make(map[string]string)
	}
	a.asignados[username] = rol
	return nil
}

func (a *asignadorPrueba) QuitarRoles(username string) error {
	a.quitados = append(a.quitados, username)
	return nil
}

func setupUsuarioServiceTest(t *testing.T) (*UsuarioService, *asignadorPrueba) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Usuario{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "clave-de-pruebas-suficientemente-larga"
	cfg.JWT.ExpireHours = 1

	usuarioRepo := repository.NewUsuarioRepository(db)
	asignador := &asignadorPrueba{}
	svc := NewUsuarioService(usuarioRepo, NewAuthService(cfg, usuarioRepo), asignador)
	return svc, asignador
}

func TestUsuarioCrearValidaciones(t *testing.T) {
	svc, _ := setupUsuarioServiceTest(t)

	casos := []UsuarioInput{
		{Username: "", Password: "secreto1", Rol: constants.RolVendedor},
		{Username: "ana", Password: "corta", Rol: constants.RolVendedor},
		{Username: "ana", Password: "secreto1", Rol: "gerente"},
	}
	for _, caso := range casos {
		if _, err := svc.Crear(caso); !errors.Is(err, ErrValidacion) {
			t.Fatalf("input %+v want ErrValidacion got %v", caso, err)
		}
	}
}

func TestUsuarioCrearSincronizaRol(t *testing.T) {
	svc, asignador := setupUsuarioServiceTest(t)

	usuario, err := svc.Crear(UsuarioInput{
		Username: "Ana.Perez",
		Password: "secreto1",
		Rol:      constants.RolVendedor,
	})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	// el username se normaliza a minúsculas
	if usuario.Username != "ana.perez" {
		t.Fatalf("username want ana.perez got %s", usuario.Username)
	}
	if asignador.asignados["ana.perez"] != constants.RolVendedor {
		t.Fatalf("rol no sincronizado: %+v", asignador.asignados)
	}
}

func TestUsuarioCrearDuplicadoActivo(t *testing.T) {
	svc, _ := setupUsuarioServiceTest(t)

	if _, err := svc.Crear(UsuarioInput{Username: "ana", Password: "secreto1", Rol: constants.RolVendedor}); err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	_, err := svc.Crear(UsuarioInput{Username: "ANA", Password: "secreto2", Rol: constants.RolDisenador})
	if !errors.Is(err, ErrYaExiste) {
		t.Fatalf("duplicado activo want ErrYaExiste got %v", err)
	}
}

func TestUsuarioRecrearInactivoReactivaMismaFila(t *testing.T) {
	svc, asignador := setupUsuarioServiceTest(t)

	original, err := svc.Crear(UsuarioInput{Username: "ana", Password: "secreto1", Rol: constants.RolVendedor})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	if err := svc.Desactivar(original.ID); err != nil {
		t.Fatalf("desactivar failed: %v", err)
	}
	if len(asignador.quitados) != 1 || asignador.quitados[0] != "ana" {
		t.Fatalf("roles no retirados al desactivar: %+v", asignador.quitados)
	}

	recreado, err := svc.Crear(UsuarioInput{Username: "ana", Password: "secreto2", Rol: constants.RolDisenador})
	if err != nil {
		t.Fatalf("recrear failed: %v", err)
	}
	if recreado.ID != original.ID {
		t.Fatalf("expected misma fila reactivada, want ID %d got %d", original.ID, recreado.ID)
	}
	if !recreado.Activo {
		t.Fatalf("expected usuario activo")
	}
	if recreado.Rol != constants.RolDisenador {
		t.Fatalf("rol want %s got %s", constants.RolDisenador, recreado.Rol)
	}
}

func TestUsuarioCambiarRol(t *testing.T) {
	svc, asignador := setupUsuarioServiceTest(t)

	usuario, err := svc.Crear(UsuarioInput{Username: "ana", Password: "secreto1", Rol: constants.RolVendedor})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}

	if _, err := svc.CambiarRol(usuario.ID, "gerente"); !errors.Is(err, ErrValidacion) {
		t.Fatalf("rol desconocido want ErrValidacion got %v", err)
	}

	cambiado, err := svc.CambiarRol(usuario.ID, constants.RolAdministrador)
	if err != nil {
		t.Fatalf("cambiar rol failed: %v", err)
	}
	if cambiado.Rol != constants.RolAdministrador {
		t.Fatalf("rol want %s got %s", constants.RolAdministrador, cambiado.Rol)
	}
	if asignador.asignados["ana"] != constants.RolAdministrador {
		t.Fatalf("rol no sincronizado: %+v", asignador.asignados)
	}
}
