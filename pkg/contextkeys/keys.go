package contextkeys

type contextKey string

// ActingUserKey guarda o nome do usuário autenticado que originou a
// requisição. Ausente nas rotas públicas.
const ActingUserKey contextKey = "acting_user"
