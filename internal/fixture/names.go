package fixture

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var firstNames = []string{
	"Diego", "Juan", "Carlos", "Pedro", "Luis", "Marco", "José", "Jorge", "Andrés", "Hugo",
	"Miguel", "Rafael", "Fernando", "Ricardo", "Roberto", "Alejandro", "Francisco", "Javier",
	"Manuel", "Antonio", "Sergio", "Raúl", "Óscar", "Víctor", "Guillermo", "Rodrigo",
	"Ernesto", "Alberto", "Enrique", "Arturo", "Mauricio", "Gabriel", "Daniel", "Samuel",
	"Emilio", "Julio", "Ramón", "Tomás", "Ignacio", "Felipe",
	"María", "Lucía", "Ana", "Sofía", "Elena", "Daniela", "Camila", "Valeria", "Paola",
	"Fernanda", "Andrea", "Carolina", "Gabriela", "Isabel", "Patricia", "Laura", "Claudia",
	"Mónica", "Silvia", "Rosa", "Carmen", "Teresa", "Beatriz", "Adriana", "Mariana",
	"Alejandra", "Natalia", "Verónica", "Cristina", "Diana", "Julia", "Lorena", "Cecilia",
	"Rocío", "Marta", "Sandra", "Gloria", "Raquel", "Susana", "Alicia",
}

var lastNames = []string{
	"Azurdia", "García", "Martínez", "López", "Hernández", "Gómez", "Pérez", "Ramírez",
	"Flores", "Torres", "Díaz", "Vásquez", "Castillo", "Ortiz", "Morales", "Reyes",
	"Cruz", "Mendoza", "Romero", "Silva", "González", "Rodríguez", "Sánchez", "Ruiz",
	"Jiménez", "Álvarez", "Vargas", "Guerrero", "Medina", "Rojas", "Contreras", "Guzmán",
	"Navarro", "Campos", "Aguilar", "Cabrera", "Ramos", "Molina", "Delgado", "Castro",
	"Ortega", "Núñez", "Ríos", "Mejía", "Salazar", "Cordero", "Estrada", "Sandoval",
	"Montes", "Carrillo", "Herrera", "Domínguez", "Vega", "Fuentes", "Ponce", "León",
	"Soto", "Peña", "Acosta", "Cortés", "Figueroa", "Espinoza", "Paredes", "Zamora",
	"Maldonado", "Velásquez", "Pacheco", "Mora", "Arias", "Cárdenas", "Valencia", "Ochoa",
}

// asciiLocal folds a full name to the "first.last" local part of an address.
func asciiLocal(fullName string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(fullName))
	if err != nil {
		folded = strings.ToLower(fullName)
	}
	parts := strings.FieldsFunc(folded, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsLetter(r)
	})
	switch len(parts) {
	case 0:
		return "user"
	case 1:
		return parts[0] + ".user"
	}
	return parts[0] + "." + parts[len(parts)-1]
}
