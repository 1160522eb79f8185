package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"
)

// TablaParametrosService motor de tablas de parámetros por producto.
// El esquema vive como lista de descriptores tipados y las filas como
// blobs JSON validados contra ese esquema al escribir.
type TablaParametrosService struct {
	tablaRepo    repository.TablaParametrosRepository
	productoRepo repository.ProductoRepository
	ordenRepo    repository.OrdenRepository
}

// NewTablaParametrosService crea el motor de tablas de parámetros
func NewTablaParametrosService(tablaRepo repository.TablaParametrosRepository, productoRepo repository.ProductoRepository, ordenRepo repository.OrdenRepository) *TablaParametrosService {
	return &TablaParametrosService{
		tablaRepo:    tablaRepo,
		productoRepo: productoRepo,
		ordenRepo:    ordenRepo,
	}
}

// TablaInput datos de creación o edición de una tabla de parámetros
type TablaInput struct {
	ProductoID      uint                    `json:"producto_id" binding:"required"`
	NombreVisible   string                  `json:"nombre_visible" binding:"required"`
	Descripcion     string                  `json:"descripcion"`
	Columnas        []models.ColumnaEsquema `json:"columnas"`
	ConAutoID       *bool                   `json:"con_auto_id"`
	TablaPadreID    *uint                   `json:"tabla_padre_id"`
	ColumnaRelacion string                  `json:"columna_relacion"`
}

// ResultadoEliminacion contadores de una baja de tabla
type ResultadoEliminacion struct {
	ValoresDesactivados int64 `json:"valores_desactivados"`
	TablasHijas         int   `json:"tablas_hijas"`
}

var slugInvalido = regexp.MustCompile(`[^a-z0-9]+`)

// generarNombreTabla slug del nombre visible más marca de tiempo,
// único frente a la restricción de la base
func generarNombreTabla(nombreVisible string) string {
	slug := strings.ToLower(strings.TrimSpace(nombreVisible))
	slug = slugInvalido.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "tabla"
	}
	return fmt.Sprintf("param_%s_%d", slug, time.Now().UnixNano()/int64(time.Millisecond))
}

// nombreTablaDisponible verifica el nombre generado contra la base y le
// agrega un sufijo numérico ante un choque de la marca de tiempo
func nombreTablaDisponible(repo repository.TablaParametrosRepository, base string) (string, error) {
	nombre := base
	for intento := 2; ; intento++ {
		n, err := repo.CountNombreTabla(nombre)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return nombre, nil
		}
		nombre = fmt.Sprintf("%s_%d", base, intento)
	}
}

func columnaTipoValido(tipo string) bool {
	switch tipo {
	case constants.ColumnaTipoTexto, constants.ColumnaTipoEntero, constants.ColumnaTipoReal, constants.ColumnaTipoBooleano:
		return true
	}
	return false
}

func esColumnaID(col models.ColumnaEsquema) bool {
	return strings.EqualFold(col.Nombre, "id") || col.PrimaryKey || col.AutoIncrement
}

// normalizarColumnas valida los descriptores y aplica la política de la
// columna "id": a lo sumo una columna id/primary_key/auto_increment y,
// de existir, debe ser INTEGER requerida con ambas marcas. Con conAutoID
// y sin columna id declarada se inyecta una al frente.
func normalizarColumnas(columnas []models.ColumnaEsquema, conAutoID bool) (models.ListaColumnas, error) {
	resultado := make(models.ListaColumnas, 0, len(columnas)+1)
	vistos := make(map[string]bool, len(columnas))
	idCount := 0

	for _, col := range columnas {
		nombre := strings.TrimSpace(col.Nombre)
		if nombre == "" {
			return nil, fmt.Errorf("%w: columna sin nombre", ErrValidacion)
		}
		clave := strings.ToLower(nombre)
		if vistos[clave] {
			return nil, fmt.Errorf("%w: columna duplicada %q", ErrValidacion, nombre)
		}
		vistos[clave] = true

		if !columnaTipoValido(col.Tipo) {
			return nil, fmt.Errorf("%w: tipo de columna inválido %q", ErrValidacion, col.Tipo)
		}

		if esColumnaID(col) {
			idCount++
			if idCount > 1 {
				return nil, fmt.Errorf("%w: solo se permite una columna id/primary_key/auto_increment", ErrValidacion)
			}
			if !strings.EqualFold(nombre, "id") || col.Tipo != constants.ColumnaTipoEntero ||
				!col.Requerida || !col.PrimaryKey || !col.AutoIncrement {
				return nil, fmt.Errorf("%w: la columna id debe ser INTEGER requerida primary_key auto_increment", ErrValidacion)
			}
		}

		col.Nombre = nombre
		resultado = append(resultado, col)
	}

	if conAutoID && idCount == 0 {
		auto := models.ColumnaEsquema{
			Nombre:        "id",
			Tipo:          constants.ColumnaTipoEntero,
			Requerida:     true,
			PrimaryKey:    true,
			AutoIncrement: true,
			Descripcion:   "Identificador automático",
		}
		resultado = append(models.ListaColumnas{auto}, resultado...)
	}

	return resultado, nil
}

// resolverRelacionPadre valida el padre declarado y retorna el
// descriptor de la columna de relación a anexar al esquema
func (s *TablaParametrosService) resolverRelacionPadre(input TablaInput) (*models.ColumnaEsquema, error) {
	if input.TablaPadreID == nil {
		return nil, nil
	}
	padre, err := s.tablaRepo.GetByID(*input.TablaPadreID)
	if err != nil {
		return nil, err
	}
	if padre == nil {
		return nil, fmt.Errorf("%w: la tabla padre %d no existe", ErrNoEncontrado, *input.TablaPadreID)
	}

	columna := strings.TrimSpace(input.ColumnaRelacion)
	if columna == "" {
		columna = fmt.Sprintf("%s_id", padre.NombreTabla)
	}
	return &models.ColumnaEsquema{
		Nombre:          columna,
		Tipo:            constants.ColumnaTipoEntero,
		Requerida:       true,
		Descripcion:     fmt.Sprintf("Relación con %s", padre.NombreVisible),
		EsForanea:       true,
		TablaReferencia: padre.ID,
	}, nil
}

// Crear define una tabla de parámetros nueva para un producto
func (s *TablaParametrosService) Crear(input TablaInput) (*models.TablaParametros, error) {
	nombreVisible := strings.TrimSpace(input.NombreVisible)
	if nombreVisible == "" {
		return nil, fmt.Errorf("%w: nombre visible requerido", ErrValidacion)
	}
	producto, err := s.productoRepo.GetByID(input.ProductoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, fmt.Errorf("%w: el producto %d no existe", ErrNoEncontrado, input.ProductoID)
	}

	conAutoID := true
	if input.ConAutoID != nil {
		conAutoID = *input.ConAutoID
	}
	esquema, err := normalizarColumnas(input.Columnas, conAutoID)
	if err != nil {
		return nil, err
	}

	colRelacion, err := s.resolverRelacionPadre(input)
	if err != nil {
		return nil, err
	}
	columnaRelacion := ""
	if colRelacion != nil {
		if !contieneColumna(esquema, colRelacion.Nombre) {
			esquema = append(esquema, *colRelacion)
		}
		columnaRelacion = colRelacion.Nombre
	}

	nombreTabla, err := nombreTablaDisponible(s.tablaRepo, generarNombreTabla(nombreVisible))
	if err != nil {
		return nil, err
	}

	tabla := &models.TablaParametros{
		ProductoID:      input.ProductoID,
		NombreTabla:     nombreTabla,
		NombreVisible:   nombreVisible,
		Descripcion:     strings.TrimSpace(input.Descripcion),
		Esquema:         esquema,
		ConAutoID:       conAutoID,
		TablaPadreID:    input.TablaPadreID,
		ColumnaRelacion: columnaRelacion,
		Activo:          true,
	}
	if err := s.tablaRepo.Create(tabla); err != nil {
		return nil, err
	}
	logger.Infow("parameter_table_created", "tabla_id", tabla.ID, "producto_id", tabla.ProductoID, "nombre_tabla", tabla.NombreTabla)
	return tabla, nil
}

func contieneColumna(esquema models.ListaColumnas, nombre string) bool {
	for _, col := range esquema {
		if strings.EqualFold(col.Nombre, nombre) {
			return true
		}
	}
	return false
}

// Obtener busca una tabla por ID
func (s *TablaParametrosService) Obtener(id uint) (*models.TablaParametros, error) {
	tabla, err := s.tablaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tabla == nil {
		return nil, ErrNoEncontrado
	}
	return tabla, nil
}

// Actualizar reescribe el esquema y los punteros de relación en sitio.
// Las filas existentes no se migran: los consumidores toleran claves
// faltantes con valores por defecto.
func (s *TablaParametrosService) Actualizar(id uint, input TablaInput) (*models.TablaParametros, error) {
	tabla, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}

	nombreVisible := strings.TrimSpace(input.NombreVisible)
	if nombreVisible == "" {
		return nil, fmt.Errorf("%w: nombre visible requerido", ErrValidacion)
	}
	if input.TablaPadreID != nil && *input.TablaPadreID == id {
		return nil, fmt.Errorf("%w: una tabla no puede ser su propio padre", ErrValidacion)
	}

	conAutoID := tabla.ConAutoID
	if input.ConAutoID != nil {
		conAutoID = *input.ConAutoID
	}
	esquema, err := normalizarColumnas(input.Columnas, conAutoID)
	if err != nil {
		return nil, err
	}

	colRelacion, err := s.resolverRelacionPadre(input)
	if err != nil {
		return nil, err
	}
	columnaRelacion := ""
	if colRelacion != nil {
		if !contieneColumna(esquema, colRelacion.Nombre) {
			esquema = append(esquema, *colRelacion)
		}
		columnaRelacion = colRelacion.Nombre
	}

	tabla.NombreVisible = nombreVisible
	tabla.Descripcion = strings.TrimSpace(input.Descripcion)
	tabla.Esquema = esquema
	tabla.ConAutoID = conAutoID
	tabla.TablaPadreID = input.TablaPadreID
	tabla.ColumnaRelacion = columnaRelacion

	if err := s.tablaRepo.Update(tabla); err != nil {
		return nil, err
	}
	return tabla, nil
}

// Eliminar da de baja lógica una tabla. Con hijas activas exige force,
// que desactiva los descendientes en profundidad antes que la tabla
// pedida. Con cascadeValues desactiva también las filas. Desactivar una
// tabla ya inactiva es un no-op con contadores en cero.
func (s *TablaParametrosService) Eliminar(id uint, cascadeValues, force bool) (*ResultadoEliminacion, error) {
	tabla, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}
	resultado := &ResultadoEliminacion{}
	if !tabla.Activo {
		return resultado, nil
	}

	hijas, err := s.tablaRepo.ListHijas(id, true)
	if err != nil {
		return nil, err
	}
	if len(hijas) > 0 && !force {
		return nil, fmt.Errorf("%w: la tabla %q tiene %d tablas hijas activas", ErrTieneReferencias, tabla.NombreVisible, len(hijas))
	}

	// descendientes primero, en profundidad
	for _, hija := range hijas {
		sub, err := s.Eliminar(hija.ID, cascadeValues, true)
		if err != nil {
			return nil, err
		}
		resultado.ValoresDesactivados += sub.ValoresDesactivados
		resultado.TablasHijas += sub.TablasHijas + 1
	}

	if cascadeValues {
		n, err := s.tablaRepo.DeactivateFilas(id)
		if err != nil {
			return nil, err
		}
		resultado.ValoresDesactivados += n
	}
	if err := s.tablaRepo.SetActivo(id, false); err != nil {
		return nil, err
	}
	logger.Infow("parameter_table_deactivated", "tabla_id", id, "valores", resultado.ValoresDesactivados, "hijas", resultado.TablasHijas)
	return resultado, nil
}

// Restaurar reactiva una tabla dada de baja. Con el padre inactivo
// exige withChildren, que reactiva la cadena de padres y aparte todos
// los descendientes inactivos.
func (s *TablaParametrosService) Restaurar(id uint, withChildren bool) error {
	tabla, err := s.Obtener(id)
	if err != nil {
		return err
	}

	if tabla.TablaPadreID != nil {
		padre, err := s.tablaRepo.GetByID(*tabla.TablaPadreID)
		if err != nil {
			return err
		}
		if padre != nil && !padre.Activo {
			if !withChildren {
				return fmt.Errorf("%w: la tabla padre %q está inactiva", ErrValidacion, padre.NombreVisible)
			}
			if err := s.restaurarCadenaPadres(padre); err != nil {
				return err
			}
		}
	}

	if err := s.tablaRepo.SetActivo(id, true); err != nil {
		return err
	}
	if withChildren {
		if err := s.restaurarDescendientes(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *TablaParametrosService) restaurarCadenaPadres(tabla *models.TablaParametros) error {
	for tabla != nil {
		if !tabla.Activo {
			if err := s.tablaRepo.SetActivo(tabla.ID, true); err != nil {
				return err
			}
		}
		if tabla.TablaPadreID == nil {
			return nil
		}
		padre, err := s.tablaRepo.GetByID(*tabla.TablaPadreID)
		if err != nil {
			return err
		}
		tabla = padre
	}
	return nil
}

func (s *TablaParametrosService) restaurarDescendientes(id uint) error {
	hijas, err := s.tablaRepo.ListHijas(id, false)
	if err != nil {
		return err
	}
	for _, hija := range hijas {
		if !hija.Activo {
			if err := s.tablaRepo.SetActivo(hija.ID, true); err != nil {
				return err
			}
		}
		if err := s.restaurarDescendientes(hija.ID); err != nil {
			return err
		}
	}
	return nil
}

// ReferenciasTabla resultado de la búsqueda heurística de referencias
type ReferenciasTabla struct {
	OrdenesCoincidentes int64 `json:"ordenes_coincidentes"`
	TablasHijasActivas  int   `json:"tablas_hijas_activas"`
}

// VerificarReferencias búsqueda por subcadena sobre los detalles de las
// órdenes, para advertir antes de una baja. Es heurística, no un
// conteo real de claves foráneas.
func (s *TablaParametrosService) VerificarReferencias(id uint) (*ReferenciasTabla, error) {
	tabla, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}

	total := int64(0)
	for _, patron := range []string{
		fmt.Sprintf("\"tabla_id\":%d", tabla.ID),
		tabla.NombreTabla,
		tabla.NombreVisible,
	} {
		n, err := s.ordenRepo.CountDetallesConteniendo(patron)
		if err != nil {
			return nil, err
		}
		total += n
	}

	hijas, err := s.tablaRepo.ListHijas(id, true)
	if err != nil {
		return nil, err
	}
	return &ReferenciasTabla{
		OrdenesCoincidentes: total,
		TablasHijasActivas:  len(hijas),
	}, nil
}

// validarFila valida los datos contra el esquema de la tabla: campos
// requeridos, tipos y existencia de la fila padre referenciada. La
// columna id automática se ignora: la identidad de la fila es la
// columna ID del registro.
func (s *TablaParametrosService) validarFila(tabla *models.TablaParametros, datos models.JSON) error {
	if datos == nil {
		return fmt.Errorf("%w: fila sin datos", ErrValidacion)
	}
	conocidas := make(map[string]models.ColumnaEsquema, len(tabla.Esquema))
	for _, col := range tabla.Esquema {
		conocidas[strings.ToLower(col.Nombre)] = col
	}

	for clave := range datos {
		if strings.EqualFold(clave, "id") {
			continue
		}
		if _, ok := conocidas[strings.ToLower(clave)]; !ok {
			return fmt.Errorf("%w: la columna %q no existe en el esquema", ErrValidacion, clave)
		}
	}

	for _, col := range tabla.Esquema {
		if col.AutoIncrement {
			continue
		}
		valor, presente := datos[col.Nombre]
		if !presente || valor == nil || valor == "" {
			if col.Requerida {
				return fmt.Errorf("%w: la columna %q es requerida", ErrValidacion, col.Nombre)
			}
			continue
		}
		if err := validarTipoColumna(col, valor); err != nil {
			return err
		}
		if col.EsForanea {
			if err := s.validarValorForaneo(col, valor); err != nil {
				return err
			}
		}
	}
	return nil
}

func validarTipoColumna(col models.ColumnaEsquema, valor interface{}) error {
	switch col.Tipo {
	case constants.ColumnaTipoTexto:
		if _, ok := valor.(string); !ok {
			return fmt.Errorf("%w: %q debe ser texto", ErrValidacion, col.Nombre)
		}
	case constants.ColumnaTipoEntero:
		if _, err := valorComoEntero(valor); err != nil {
			return fmt.Errorf("%w: %q debe ser un entero", ErrValidacion, col.Nombre)
		}
	case constants.ColumnaTipoReal:
		if _, err := valorComoFloat(valor); err != nil {
			return fmt.Errorf("%w: %q debe ser numérico", ErrValidacion, col.Nombre)
		}
	case constants.ColumnaTipoBooleano:
		if _, ok := valor.(bool); !ok {
			return fmt.Errorf("%w: %q debe ser booleano", ErrValidacion, col.Nombre)
		}
	}
	return nil
}

// valorComoEntero acepta las formas en que un entero llega tras pasar
// por JSON: float64 sin parte fraccionaria, string numérica o int
func valorComoEntero(valor interface{}) (int64, error) {
	switch v := valor.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("no es entero: %v", v)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("tipo no soportado: %T", valor)
}

func valorComoFloat(valor interface{}) (float64, error) {
	switch v := valor.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.Replace(strings.TrimSpace(v), ",", ".", 1), 64)
	}
	return 0, fmt.Errorf("tipo no soportado: %T", valor)
}

// validarValorForaneo exige que el valor apunte a una fila activa de la
// tabla padre declarada
func (s *TablaParametrosService) validarValorForaneo(col models.ColumnaEsquema, valor interface{}) error {
	padreID, err := valorComoEntero(valor)
	if err != nil {
		return fmt.Errorf("%w: %q debe referenciar por ID", ErrValidacion, col.Nombre)
	}
	fila, err := s.tablaRepo.GetFila(uint(padreID))
	if err != nil {
		return err
	}
	if fila == nil || !fila.Activo || fila.TablaID != col.TablaReferencia {
		return fmt.Errorf("%w: la fila %d no existe en la tabla padre", ErrValidacion, padreID)
	}
	return nil
}

// AgregarFila valida e inserta una fila de datos
func (s *TablaParametrosService) AgregarFila(tablaID uint, datos models.JSON) (*models.FilaParametros, error) {
	tabla, err := s.Obtener(tablaID)
	if err != nil {
		return nil, err
	}
	if !tabla.Activo {
		return nil, fmt.Errorf("%w: la tabla %q está inactiva", ErrValidacion, tabla.NombreVisible)
	}
	if err := s.validarFila(tabla, datos); err != nil {
		return nil, err
	}
	// filas heredadas pueden traer un "id" dentro del JSON; la columna
	// ID del registro manda
	delete(datos, "id")

	fila := &models.FilaParametros{
		TablaID: tablaID,
		Datos:   datos,
		Activo:  true,
	}
	if err := s.tablaRepo.CreateFila(fila); err != nil {
		return nil, err
	}
	return fila, nil
}

// ActualizarFila valida y reescribe los datos de una fila
func (s *TablaParametrosService) ActualizarFila(filaID uint, datos models.JSON) (*models.FilaParametros, error) {
	fila, err := s.tablaRepo.GetFila(filaID)
	if err != nil {
		return nil, err
	}
	if fila == nil {
		return nil, ErrNoEncontrado
	}
	tabla, err := s.Obtener(fila.TablaID)
	if err != nil {
		return nil, err
	}
	if err := s.validarFila(tabla, datos); err != nil {
		return nil, err
	}
	delete(datos, "id")

	fila.Datos = datos
	if err := s.tablaRepo.UpdateFila(fila); err != nil {
		return nil, err
	}
	return fila, nil
}

// EliminarFila baja lógica de una fila
func (s *TablaParametrosService) EliminarFila(filaID uint) error {
	fila, err := s.tablaRepo.GetFila(filaID)
	if err != nil {
		return err
	}
	if fila == nil {
		return ErrNoEncontrado
	}
	return s.tablaRepo.SetFilaActivo(filaID, false)
}

// Filas lista las filas de una tabla
func (s *TablaParametrosService) Filas(tablaID uint, soloActivas bool) ([]models.FilaParametros, error) {
	if _, err := s.Obtener(tablaID); err != nil {
		return nil, err
	}
	return s.tablaRepo.ListFilas(tablaID, soloActivas)
}

// OpcionPadre opción legible de una fila de la tabla padre
type OpcionPadre struct {
	FilaID   uint   `json:"fila_id"`
	Etiqueta string `json:"etiqueta"`
}

// OpcionesTablaPadre resuelve una etiqueta legible por fila del padre:
// la primera columna TEXT que no sea id, o la primera columna no-id
// como último recurso
func (s *TablaParametrosService) OpcionesTablaPadre(padreID uint) ([]OpcionPadre, error) {
	tabla, err := s.Obtener(padreID)
	if err != nil {
		return nil, err
	}

	columnaEtiqueta := ""
	for _, col := range tabla.Esquema {
		if esColumnaID(col) {
			continue
		}
		if col.Tipo == constants.ColumnaTipoTexto {
			columnaEtiqueta = col.Nombre
			break
		}
		if columnaEtiqueta == "" {
			columnaEtiqueta = col.Nombre
		}
	}

	filas, err := s.tablaRepo.ListFilas(padreID, true)
	if err != nil {
		return nil, err
	}
	opciones := make([]OpcionPadre, 0, len(filas))
	for _, fila := range filas {
		etiqueta := fmt.Sprintf("Fila %d", fila.ID)
		if columnaEtiqueta != "" {
			if v, ok := fila.Datos[columnaEtiqueta]; ok && v != nil {
				etiqueta = fmt.Sprintf("%v", v)
			}
		}
		opciones = append(opciones, OpcionPadre{FilaID: fila.ID, Etiqueta: etiqueta})
	}
	return opciones, nil
}

// FilasPorPadre filtra en proceso las filas de la tabla hija cuyo valor
// en la columna de relación apunta a la fila padre dada
func (s *TablaParametrosService) FilasPorPadre(hijaID uint, columnaRelacion string, padreFilaID uint) ([]models.FilaParametros, error) {
	tabla, err := s.Obtener(hijaID)
	if err != nil {
		return nil, err
	}
	if columnaRelacion == "" {
		columnaRelacion = tabla.ColumnaRelacion
	}
	if columnaRelacion == "" {
		return nil, fmt.Errorf("%w: la tabla %q no declara columna de relación", ErrValidacion, tabla.NombreVisible)
	}

	filas, err := s.tablaRepo.ListFilas(hijaID, true)
	if err != nil {
		return nil, err
	}
	filtradas := make([]models.FilaParametros, 0, len(filas))
	for _, fila := range filas {
		valor, ok := fila.Datos[columnaRelacion]
		if !ok {
			continue
		}
		id, err := valorComoEntero(valor)
		if err != nil {
			continue
		}
		if uint(id) == padreFilaID {
			filtradas = append(filtradas, fila)
		}
	}
	return filtradas, nil
}
