// Package dropcountr is a client for the Dropcountr water-utility API.
//
// The client authenticates with a form login, carries the resulting session
// cookies on every request, and unwraps the {"data": ...} envelope the API
// puts around each JSON payload. Time-series endpoints are discovered as
// RFC 6570 URI templates on service connections and expanded with a period
// and an ISO 8601 interval:
//
//	client := dropcountr.New(email, password)
//	defer client.Close()
//
//	resp, err := client.Login(ctx)
//	if err != nil {
//		return err
//	}
//	resp.Body.Close()
//
//	user, err := client.Me(ctx)
//	if err != nil {
//		return err
//	}
//	premise, err := client.Premise(ctx, user.Premises[0].ID)
//	if err != nil {
//		return err
//	}
//	sc := premise.ServiceConnections[0]
//	usage, err := client.Usage(ctx, sc.UsageSeries.Template, "day",
//		dropcountr.Interval(start, end))
package dropcountr
