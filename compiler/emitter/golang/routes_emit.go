package golang

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/pkg/names"
)

// emitRoutes renders one service interface per endpoint group plus a
// RegisterRoutes function that mounts every operation on a ServeMux.
// Handlers decode the body, run Validate, then call the service method;
// queries and mutations share the POST-with-JSON-body transport.
func (b *Backend) emitRoutes(contract *ir.ContractDefinition, pkg string) (string, error) {
	groups := make(map[string][]ir.Endpoint)
	var order []string
	for _, ep := range contract.Endpoints {
		if _, seen := groups[ep.Group]; !seen {
			order = append(order, ep.Group)
		}
		groups[ep.Group] = append(groups[ep.Group], ep)
	}
	sort.Strings(order)

	var body strings.Builder

	for _, group := range order {
		iface := names.ExportName(group) + "Service"
		fmt.Fprintf(&body, "// %s handles %s.* operations.\n", iface, group)
		fmt.Fprintf(&body, "type %s interface {\n", iface)
		for _, ep := range groups[group] {
			fmt.Fprintf(&body, "\t%s(ctx context.Context, in *%s) (*%s, error)\n",
				names.ExportName(ep.Name), ep.Input.Name, ep.Output.Name)
		}
		body.WriteString("}\n\n")
	}

	body.WriteString("// Services bundles one implementation per endpoint group.\n")
	body.WriteString("type Services struct {\n")
	for _, group := range order {
		fmt.Fprintf(&body, "\t%s %sService\n", names.ExportName(group), names.ExportName(group))
	}
	body.WriteString("}\n\n")

	body.WriteString("// RegisterRoutes mounts every contract operation under /rpc/<group.name>.\n")
	body.WriteString("func RegisterRoutes(mux *http.ServeMux, svc Services) {\n")
	for _, group := range order {
		for _, ep := range groups[group] {
			fmt.Fprintf(&body, "\tmux.HandleFunc(%q, func(w http.ResponseWriter, r *http.Request) {\n",
				"POST /rpc/"+ep.FullName)
			fmt.Fprintf(&body, "\t\tvar in %s\n", ep.Input.Name)
			body.WriteString("\t\tif err := json.NewDecoder(r.Body).Decode(&in); err != nil {\n")
			body.WriteString("\t\t\twriteErrors(w, http.StatusBadRequest, []string{\"invalid JSON body\"})\n")
			body.WriteString("\t\t\treturn\n\t\t}\n")
			body.WriteString("\t\tif errs := in.Validate(); len(errs) > 0 {\n")
			body.WriteString("\t\t\twriteErrors(w, http.StatusUnprocessableEntity, errs)\n")
			body.WriteString("\t\t\treturn\n\t\t}\n")
			fmt.Fprintf(&body, "\t\tout, err := svc.%s.%s(r.Context(), &in)\n",
				names.ExportName(group), names.ExportName(ep.Name))
			body.WriteString("\t\tif err != nil {\n")
			body.WriteString("\t\t\twriteErrors(w, http.StatusInternalServerError, []string{err.Error()})\n")
			body.WriteString("\t\t\treturn\n\t\t}\n")
			body.WriteString("\t\tw.Header().Set(\"Content-Type\", \"application/json\")\n")
			body.WriteString("\t\t_ = json.NewEncoder(w).Encode(out)\n")
			body.WriteString("\t})\n")
		}
	}
	body.WriteString("}\n\n")

	body.WriteString("func writeErrors(w http.ResponseWriter, status int, msgs []string) {\n")
	body.WriteString("\tw.Header().Set(\"Content-Type\", \"application/json\")\n")
	body.WriteString("\tw.WriteHeader(status)\n")
	body.WriteString("\t_ = json.NewEncoder(w).Encode(map[string]any{\"errors\": msgs})\n")
	body.WriteString("}\n")

	imports := []string{"context", "encoding/json", "net/http"}
	return assembleFile(pkg, imports, body.String()), nil
}
