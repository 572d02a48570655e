package sentences

// Groups holds the built-in practice sentences by theme.
var Groups = map[string][]Sentence{
	"Greetings": {
		{English: "Hello, how are you?", Spanish: "Hola, ¿cómo estás?"},
		{English: "Good morning!", Spanish: "¡Buenos días!"},
		{English: "My name is John.", Spanish: "Me llamo John."},
		{English: "Nice to meet you.", Spanish: "Encantado de conocerte."},
		{English: "See you tomorrow!", Spanish: "¡Hasta mañana!"},
	},
	"Food": {
		{English: "I want a coffee, please.", Spanish: "Quiero un café, por favor."},
		{English: "The restaurant is closed.", Spanish: "El restaurante está cerrado."},
		{English: "This food is delicious.", Spanish: "Esta comida está deliciosa."},
		{English: "Can I have the menu?", Spanish: "¿Puedo ver el menú?"},
		{English: "I am vegetarian.", Spanish: "Soy vegetariano."},
	},
	"Travel": {
		{English: "Where is the hotel?", Spanish: "¿Dónde está el hotel?"},
		{English: "How much is the ticket?", Spanish: "¿Cuánto cuesta el boleto?"},
		{English: "I need a taxi.", Spanish: "Necesito un taxi."},
		{English: "Is this the train to Madrid?", Spanish: "¿Este es el tren a Madrid?"},
		{English: "I am lost.", Spanish: "Estoy perdido."},
	},
	"Shopping": {
		{English: "How much does this cost?", Spanish: "¿Cuánto cuesta esto?"},
		{English: "I like this shirt.", Spanish: "Me gusta esta camisa."},
		{English: "Do you have it in blue?", Spanish: "¿Lo tienen en azul?"},
		{English: "I want to pay by card.", Spanish: "Quiero pagar con tarjeta."},
		{English: "This is expensive.", Spanish: "Esto es caro."},
	},
	"Daily Activities": {
		{English: "I wake up at 7 AM.", Spanish: "Me despierto a las 7 de la mañana."},
		{English: "I need to go to work.", Spanish: "Necesito ir al trabajo."},
		{English: "What time is it?", Spanish: "¿Qué hora es?"},
		{English: "I like to read books.", Spanish: "Me gusta leer libros."},
		{English: "I am going to the gym.", Spanish: "Voy al gimnasio."},
	},
}

// GroupNames lists the built-in groups in display order.
var GroupNames = []string{"Greetings", "Food", "Travel", "Shopping", "Daily Activities"}
