package api

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
)

// tipsMarkdown is the usage guide shown below the form.
const tipsMarkdown = `### Consejos

- Los **patrones de inicio** se evalúan línea por línea sobre las primeras
  líneas de cada página. El primer patrón que coincide marca la página como
  inicio de sección.
- Un patrón con grupo de captura, por ejemplo ` + "`^\\s*docente\\s*:\\s*(.+)$`" + `,
  guarda el texto capturado como nombre de respaldo para esa sección.
- Si un patrón no es una expresión regular válida se usa como texto literal,
  sin distinguir mayúsculas ni acentos.
- En el **modo de etiquetas** se busca una línea con la forma
  ` + "`etiqueta: valor`" + ` dentro de las primeras páginas de cada sección.
- El **corte** elimina todo lo que sigue a la palabra indicada dentro del
  nombre detectado, útil cuando el encabezado junta varios campos en una
  línea.
- El **filtro de valores negativos** descarta las secciones cuyo campo
  etiquetado contiene un número negativo y las lista en la hoja *errores*
  del reporte.
`

var (
	tipsOnce sync.Once
	tips     template.HTML
)

func tipsHTML() template.HTML {
	tipsOnce.Do(func() {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(tipsMarkdown), &buf); err != nil {
			tips = template.HTML("")
			return
		}
		tips = template.HTML(buf.String())
	})
	return tips
}
