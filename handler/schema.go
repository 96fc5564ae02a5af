package handler

import (
	"errors"

	"booklister/data"
	"booklister/data/dto"
	"booklister/internal/token"
	"booklister/service"

	"github.com/graphql-go/graphql"
	"github.com/jellydator/ttlcache/v3"
)

const genresCacheKey = "genres"

// stringArg returns a pointer to the named string argument, or nil when the
// argument was not supplied.
func stringArg(args map[string]interface{}, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func intArg(args map[string]interface{}, key string) *int {
	if v, ok := args[key].(int); ok {
		return &v
	}
	return nil
}

// floatArg accepts both int and float64 because GraphQL clients may pass a
// whole number for a Float argument.
func floatArg(args map[string]interface{}, key string) *float64 {
	switch v := args[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

// bookFilterFromArg converts a BookFilterInput value into a data.BookFilter.
// The rating bounds stay pointers so that 0 is a usable bound, while absent
// year bounds collapse to the zero value, which the query builder treats as
// unset.
func bookFilterFromArg(arg interface{}) data.BookFilter {
	var filter data.BookFilter
	input, ok := arg.(map[string]interface{})
	if !ok {
		return filter
	}
	if v := stringArg(input, "genre"); v != nil {
		filter.Genre = *v
	}
	if v := intArg(input, "minYear"); v != nil {
		filter.MinYear = *v
	}
	if v := intArg(input, "maxYear"); v != nil {
		filter.MaxYear = *v
	}
	filter.MinRating = floatArg(input, "minRating")
	filter.MaxRating = floatArg(input, "maxRating")
	if v := stringArg(input, "language"); v != nil {
		filter.Language = *v
	}
	if v := stringArg(input, "search"); v != nil {
		filter.Search = *v
	}
	return filter
}

func createBookInputFromArg(arg interface{}) dto.CreateBookInput {
	var in dto.CreateBookInput
	input, ok := arg.(map[string]interface{})
	if !ok {
		return in
	}
	if v := stringArg(input, "title"); v != nil {
		in.Title = *v
	}
	if v := stringArg(input, "author"); v != nil {
		in.Author = *v
	}
	if v := intArg(input, "publishedYear"); v != nil {
		in.PublishedYear = *v
	}
	if v := stringArg(input, "genre"); v != nil {
		in.Genre = *v
	}
	in.ISBN = stringArg(input, "isbn")
	in.Description = stringArg(input, "description")
	in.CoverImage = stringArg(input, "coverImage")
	in.Rating = floatArg(input, "rating")
	in.TotalPages = intArg(input, "totalPages")
	in.Language = stringArg(input, "language")
	in.Publisher = stringArg(input, "publisher")
	return in
}

func updateBookInputFromArg(arg interface{}) dto.UpdateBookInput {
	var in dto.UpdateBookInput
	input, ok := arg.(map[string]interface{})
	if !ok {
		return in
	}
	in.Title = stringArg(input, "title")
	in.Author = stringArg(input, "author")
	in.PublishedYear = intArg(input, "publishedYear")
	in.Genre = stringArg(input, "genre")
	in.ISBN = stringArg(input, "isbn")
	in.Description = stringArg(input, "description")
	in.CoverImage = stringArg(input, "coverImage")
	in.Rating = floatArg(input, "rating")
	in.TotalPages = intArg(input, "totalPages")
	in.Language = stringArg(input, "language")
	in.Publisher = stringArg(input, "publisher")
	return in
}

// mutationIdentity resolves the request identity for a catalog mutation,
// enforcing the auth requirement when it is enabled. Queries never go
// through this.
func (h *Handler) mutationIdentity(p graphql.ResolveParams) (*token.Payload, error) {
	identity := identityFromContext(p.Context)
	if h.config.Auth.RequireAuthForMutations && identity == nil {
		return nil, service.ErrNotAuthenticated
	}
	return identity, nil
}

// buildSchema wires the GraphQL schema to the service layer.
func (h *Handler) buildSchema() (graphql.Schema, error) {
	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, ok := p.Source.(*data.Book)
					if !ok {
						return nil, nil
					}
					return book.ID.Hex(), nil
				},
			},
			"title":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"author":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"isbn":          &graphql.Field{Type: graphql.String},
			"publishedYear": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"genre":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description":   &graphql.Field{Type: graphql.String},
			"coverImage":    &graphql.Field{Type: graphql.String},
			"rating":        &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"totalPages":    &graphql.Field{Type: graphql.Int},
			"language":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"publisher":     &graphql.Field{Type: graphql.String},
			"createdBy": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, ok := p.Source.(*data.Book)
					if !ok || book.CreatedBy.IsZero() {
						return nil, nil
					}
					return book.CreatedBy.Hex(), nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	metadataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Metadata",
		Fields: graphql.Fields{
			"currentPage":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"pageSize":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"firstPage":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"lastPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalRecords": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	bookPageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BookPage",
		Fields: graphql.Fields{
			"books":    &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookType)))},
			"metadata": &graphql.Field{Type: graphql.NewNonNull(metadataType)},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := p.Source.(*data.User)
					if !ok {
						return nil, nil
					}
					return user.ID.Hex(), nil
				},
			},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
		},
	})

	genreCountType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GenreCount",
		Fields: graphql.Fields{
			"genre": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	yearCountType := graphql.NewObject(graphql.ObjectConfig{
		Name: "YearCount",
		Fields: graphql.Fields{
			"year":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	bookStatsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BookStats",
		Fields: graphql.Fields{
			"totalBooks":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"averageRating":     &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"genreDistribution": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(genreCountType)))},
			"booksPerYear":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(yearCountType)))},
		},
	})

	bookFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "BookFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"genre":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"minYear":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"maxYear":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"minRating": &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"maxRating": &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"language":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"search":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	createBookInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateBookInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"author":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"publishedYear": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"genre":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"isbn":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"coverImage":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"rating":        &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"totalPages":    &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"language":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"publisher":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	updateBookInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateBookInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"author":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"publishedYear": &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"genre":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isbn":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"coverImage":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"rating":        &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"totalPages":    &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"language":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"publisher":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	registerInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RegisterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	loginInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoginInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"books": &graphql.Field{
				Type: graphql.NewNonNull(bookPageType),
				Args: graphql.FieldConfigArgument{
					"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
					"filter": &graphql.ArgumentConfig{Type: bookFilterInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filters := data.Filters{
						Page:  p.Args["page"].(int),
						Limit: p.Args["limit"].(int),
					}
					filter := bookFilterFromArg(p.Args["filter"])
					books, metadata, err := h.service.ListBooks(p.Context, filter, filters)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"books":    books,
						"metadata": metadata,
					}, nil
				},
			},
			"book": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, err := h.service.GetBook(p.Context, p.Args["id"].(string))
					if err != nil {
						// An unknown book is null, not an error.
						if errors.Is(err, service.ErrRecordNotFound) {
							return nil, nil
						}
						return nil, err
					}
					return book, nil
				},
			},
			"searchBooks": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookType))),
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return h.service.SearchBooks(p.Context, p.Args["query"].(string), p.Args["limit"].(int))
				},
			},
			"genres": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if item := h.cache.Get(genresCacheKey); item != nil {
						return item.Value(), nil
					}
					genres, err := h.service.ListGenres(p.Context)
					if err != nil {
						return nil, err
					}
					h.cache.Set(genresCacheKey, genres, ttlcache.DefaultTTL)
					return genres, nil
				},
			},
			"bookStats": &graphql.Field{
				Type: graphql.NewNonNull(bookStatsType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return h.service.GetBookStats(p.Context)
				},
			},
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity := identityFromContext(p.Context)
					if identity == nil {
						return nil, service.ErrNotAuthenticated
					}
					user, err := h.service.GetUser(p.Context, identity.UserID)
					if err != nil {
						// A token for a user that no longer exists is as
						// good as no token.
						if errors.Is(err, service.ErrRecordNotFound) {
							return nil, service.ErrNotAuthenticated
						}
						return nil, err
					}
					return user, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(registerInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := p.Args["input"].(map[string]interface{})
					user, signed, err := h.service.RegisterUser(p.Context, dto.RegisterInput{
						Name:     input["name"].(string),
						Email:    input["email"].(string),
						Password: input["password"].(string),
					})
					if err != nil {
						if errors.Is(err, service.ErrDuplicateRecord) {
							return nil, errors.New("a user with this email address already exists")
						}
						return nil, err
					}
					return map[string]interface{}{"token": signed, "user": user}, nil
				},
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := p.Args["input"].(map[string]interface{})
					user, signed, err := h.service.LoginUser(p.Context, dto.LoginInput{
						Email:    input["email"].(string),
						Password: input["password"].(string),
					})
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{"token": signed, "user": user}, nil
				},
			},
			"createBook": &graphql.Field{
				Type: graphql.NewNonNull(bookType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createBookInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := h.mutationIdentity(p)
					if err != nil {
						return nil, err
					}
					var createdBy string
					if identity != nil {
						createdBy = identity.UserID
					}
					book, err := h.service.CreateBook(p.Context, createBookInputFromArg(p.Args["input"]), createdBy)
					if err != nil {
						return nil, err
					}
					h.cache.Delete(genresCacheKey)
					return book, nil
				},
			},
			"updateBook": &graphql.Field{
				Type: graphql.NewNonNull(bookType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateBookInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := h.mutationIdentity(p); err != nil {
						return nil, err
					}
					book, err := h.service.UpdateBook(p.Context, p.Args["id"].(string), updateBookInputFromArg(p.Args["input"]))
					if err != nil {
						return nil, err
					}
					h.cache.Delete(genresCacheKey)
					return book, nil
				},
			},
			"deleteBook": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := h.mutationIdentity(p); err != nil {
						return nil, err
					}
					deleted, err := h.service.DeleteBook(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					if deleted {
						h.cache.Delete(genresCacheKey)
					}
					return deleted, nil
				},
			},
			"rateBook": &graphql.Field{
				Type: graphql.NewNonNull(bookType),
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"rating": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := h.mutationIdentity(p); err != nil {
						return nil, err
					}
					rating := floatArg(p.Args, "rating")
					if rating == nil {
						return nil, errors.New("rating must be provided")
					}
					return h.service.RateBook(p.Context, p.Args["id"].(string), *rating)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
