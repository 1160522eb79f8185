package service

import "errors"

// Errores centinela compartidos por los servicios. Los handlers HTTP los
// traducen a códigos de respuesta con errors.Is.
var (
	// ErrNoEncontrado el recurso solicitado no existe o está inactivo
	ErrNoEncontrado = errors.New("recurso no encontrado")
	// ErrYaExiste choca con un registro existente (nombre o número duplicado)
	ErrYaExiste = errors.New("el registro ya existe")
	// ErrValidacion los datos de entrada no cumplen las reglas del dominio
	ErrValidacion = errors.New("datos inválidos")
	// ErrTieneReferencias la entidad tiene dependientes y no se pidió forzar
	ErrTieneReferencias = errors.New("la entidad tiene referencias activas")
	// ErrCredenciales usuario o contraseña incorrectos
	ErrCredenciales = errors.New("credenciales inválidas")
	// ErrNoAutorizado el usuario autenticado no tiene el rol requerido
	ErrNoAutorizado = errors.New("operación no autorizada")
)
