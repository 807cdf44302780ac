package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/mvalderas/tienda-api/internal/user"
)

func TestListUsers_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	_, anaToken := env.seedUser(t, "ana@example.com", "customer")
	_, adminToken := env.seedUser(t, "root@example.com", "admin")

	mustStatus(t, env.do(http.MethodGet, "/api/users", "", ""), http.StatusUnauthorized)
	mustStatus(t, env.do(http.MethodGet, "/api/users", "", anaToken), http.StatusForbidden)

	w := env.do(http.MethodGet, "/api/users", "", adminToken)
	mustStatus(t, w, http.StatusOK)
	var out []user.User
	decodeJSON(t, w, &out)
	if len(out) != 2 {
		t.Fatalf("esperaba 2 usuarios, llegaron %d", len(out))
	}
	// el hash nunca se serializa
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("la respuesta filtra el password: %s", w.Body.String())
	}
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	anaID, anaToken := env.seedUser(t, "ana@example.com", "customer")

	w := env.do(http.MethodGet, "/api/users/profile", "", anaToken)
	mustStatus(t, w, http.StatusOK)
	var got user.User
	decodeJSON(t, w, &got)
	if got.ID != anaID || got.Email != "ana@example.com" {
		t.Fatalf("usuario inesperado: %+v", got)
	}
}

func TestGetUser_AdminOrSelf(t *testing.T) {
	env := newTestEnv(t)
	anaID, anaToken := env.seedUser(t, "ana@example.com", "customer")
	bobID, _ := env.seedUser(t, "bob@example.com", "customer")
	_, adminToken := env.seedUser(t, "root@example.com", "admin")

	// cada uno puede verse a sí mismo
	mustStatus(t, env.do(http.MethodGet, "/api/users/"+anaID, "", anaToken), http.StatusOK)
	// pero no a otro
	mustStatus(t, env.do(http.MethodGet, "/api/users/"+bobID, "", anaToken), http.StatusForbidden)
	// el admin puede ver a cualquiera
	mustStatus(t, env.do(http.MethodGet, "/api/users/"+bobID, "", adminToken), http.StatusOK)
	// id inexistente
	mustStatus(t, env.do(http.MethodGet, "/api/users/nope", "", adminToken), http.StatusNotFound)
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	anaID, anaToken := env.seedUser(t, "ana@example.com", "customer")
	bobID, _ := env.seedUser(t, "bob@example.com", "customer")
	_, adminToken := env.seedUser(t, "root@example.com", "admin")

	// un cliente no edita cuentas ajenas
	mustStatus(t, env.do(http.MethodPut, "/api/users/"+bobID, `{"email":"x@example.com"}`, anaToken), http.StatusForbidden)

	// un cliente no cambia su propio rol
	mustStatus(t, env.do(http.MethodPut, "/api/users/"+anaID, `{"role":"admin"}`, anaToken), http.StatusForbidden)
	if env.users.users[anaID].Role != "customer" {
		t.Fatalf("el rol no debía cambiar: %s", env.users.users[anaID].Role)
	}

	// sí cambia su propio email
	w := env.do(http.MethodPut, "/api/users/"+anaID, `{"email":"ana2@example.com"}`, anaToken)
	mustStatus(t, w, http.StatusOK)
	var got struct{ User user.User }
	decodeJSON(t, w, &got)
	if got.User.Email != "ana2@example.com" {
		t.Fatalf("email=%s, esperaba ana2@example.com", got.User.Email)
	}

	// el admin promueve a bob
	w = env.do(http.MethodPut, "/api/users/"+bobID, `{"role":"admin"}`, adminToken)
	mustStatus(t, w, http.StatusOK)
	if env.users.users[bobID].Role != "admin" {
		t.Fatalf("rol=%s, esperaba admin", env.users.users[bobID].Role)
	}

	// rol inventado ⇒ 400
	mustStatus(t, env.do(http.MethodPut, "/api/users/"+bobID, `{"role":"superuser"}`, adminToken), http.StatusBadRequest)

	// id inexistente ⇒ 404
	mustStatus(t, env.do(http.MethodPut, "/api/users/nope", `{"email":"x@example.com"}`, adminToken), http.StatusNotFound)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	anaID, anaToken := env.seedUser(t, "ana@example.com", "customer")
	adminID, adminToken := env.seedUser(t, "root@example.com", "admin")

	// solo admin
	mustStatus(t, env.do(http.MethodDelete, "/api/users/"+anaID, "", anaToken), http.StatusForbidden)

	// el admin no se borra a sí mismo
	mustStatus(t, env.do(http.MethodDelete, "/api/users/"+adminID, "", adminToken), http.StatusBadRequest)

	// borrado real
	mustStatus(t, env.do(http.MethodDelete, "/api/users/"+anaID, "", adminToken), http.StatusOK)
	if _, ok := env.users.users[anaID]; ok {
		t.Fatalf("el usuario sigue existiendo tras el borrado")
	}

	// repetirlo ⇒ 404
	mustStatus(t, env.do(http.MethodDelete, "/api/users/"+anaID, "", adminToken), http.StatusNotFound)
}
